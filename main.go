package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/siamcredit/statement-analyzer/internal/analyzer"
	"github.com/siamcredit/statement-analyzer/internal/api"
	"github.com/siamcredit/statement-analyzer/internal/config"
	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/logger"
	"github.com/siamcredit/statement-analyzer/internal/masking"
	"github.com/siamcredit/statement-analyzer/internal/models"
	"github.com/siamcredit/statement-analyzer/internal/parser"
	"github.com/siamcredit/statement-analyzer/internal/storage"
	"github.com/siamcredit/statement-analyzer/internal/store"
	"github.com/siamcredit/statement-analyzer/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	bankFlag := flag.String("bank", "", "Bank: kbank, scb, ktb, bbl, ttb (auto-detected if omitted)")
	passwordFlag := flag.String("password", "", "PDF password for encrypted statements")
	expectedFlag := flag.Float64("expected", 0, "Expected gross monthly salary in THB for verification")
	employerFlag := flag.String("employer", "", "Employer name to match against transaction descriptions")
	incomeTypeFlag := flag.String("income-type", "salaried", "Income type: salaried or self_employed")
	pvdFlag := flag.Float64("pvd", 0, "Provident fund contribution rate (0 to 0.15)")
	deductionsFlag := flag.Float64("deductions", 0, "Extra annual tax deductions in THB")
	maskFlag := flag.Bool("mask", true, "Mask personal data in transaction text before reporting")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	headerFlag := flag.Bool("header", true, "Include summary header rows in CSV")
	serveFlag := flag.Bool("serve", false, "Run as an HTTP service instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Thai Bank Statement Income Analyzer

Extracts transactions from Thai bank statement PDFs, detects recurring
salary income, estimates gross salary from net deposits under Thai tax
rules, and produces an approval decision for income verification.

Usage:
  statement-analyzer [flags] <statement.pdf> [statement2.pdf ...]
  statement-analyzer -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect bank and analyze
  statement-analyzer statement.pdf

  # Verify against a declared salary
  statement-analyzer -expected=95000 -employer="SG CAPITAL" statement.pdf

  # Encrypted statement, self-employed applicant
  statement-analyzer -password=0412 -income-type=self_employed statement.pdf

  # Run the HTTP API
  statement-analyzer -serve

Supported Banks:
  kbank  - Kasikornbank
  scb    - Siam Commercial Bank
  ktb    - Krungthai Bank
  bbl    - Bangkok Bank
  ttb    - TMBThanachart Bank
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-analyzer v%s\n", version)
		os.Exit(0)
	}

	if *serveFlag {
		if err := serve(); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var bank models.BankType
	if *bankFlag != "" {
		b, ok := bankFromFlag(*bankFlag)
		if !ok {
			fatalf("Unknown bank %q. Supported: kbank, scb, ktb, bbl, ttb\n", *bankFlag)
		}
		bank = b
	}

	opts := analyzer.Options{
		ExpectedGross:   *expectedFlag,
		Employer:        *employerFlag,
		PVDRate:         *pvdFlag,
		ExtraDeductions: *deductionsFlag,
	}
	switch strings.ToLower(*incomeTypeFlag) {
	case "salaried":
		opts.IncomeType = models.IncomeSalaried
	case "self_employed", "self-employed":
		opts.IncomeType = models.IncomeSelfEmployed
	default:
		fatalf("Unknown income type %q. Use salaried or self_employed\n", *incomeTypeFlag)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, bank, *passwordFlag, opts, *maskFlag, *outputFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath string, bank models.BankType, password string, opts analyzer.Options, mask bool, outputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	pages, err := extractor.ExtractFile(inputPath, password)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}
	fmt.Printf("  Extracted text from %d page(s)\n", len(pages))

	if bank == "" {
		bank = parser.Detect(pages)
		if bank == models.BankUnknown {
			return fmt.Errorf("could not identify the bank; specify it with -bank")
		}
		fmt.Printf("  Auto-detected bank: %s\n", bank)
	}

	p := parser.New(bank)
	txs := p.Parse(pages)
	fmt.Printf("  Found %d transaction(s)\n", len(txs))

	if len(txs) == 0 {
		fmt.Println("  Warning: No transactions found. The PDF layout may not match expected patterns.")
	}

	if mask {
		txs, _ = masking.New().MaskTransactions(txs)
	}

	analysis := analyzer.Analyze(txs, opts)

	fmt.Printf("  Detected income: %.2f THB/month (%s confidence, %d month(s))\n",
		analysis.DetectedAmount, analysis.Confidence, analysis.MonthsDetected)
	if analysis.Approved {
		fmt.Println("  Decision: APPROVED")
	} else {
		fmt.Printf("  Decision: REJECTED (%s)\n", analysis.RejectionReason)
	}

	stmt := &models.Statement{
		SourceFile:    inputPath,
		Bank:          bank,
		AccountNumber: parser.FindAccountNumber(pages),
		Period:        parser.FindStatementPeriod(pages),
		TotalPages:    len(pages),
		Transactions:  txs,
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, stmt, &analysis); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	return nil
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New()

	var docs storage.Storage
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStorage(context.Background(), cfg.GCSBucket)
		if err != nil {
			return fmt.Errorf("init GCS storage: %w", err)
		}
		defer gcs.Close()
		docs = gcs
		log.Info().Str("bucket", cfg.GCSBucket).Msg("using GCS document storage")
	} else {
		local, err := storage.NewLocalStorage(cfg.StorageDir)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
		docs = local
		log.Info().Str("dir", cfg.StorageDir).Msg("using local document storage")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // statements are rarely over a few MB
	})
	h := &api.Handler{
		Log:     log,
		Store:   db,
		Docs:    docs,
		MaskPII: cfg.MaskPII,
	}
	h.Register(app)

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	return app.Listen(cfg.Addr)
}

func bankFromFlag(s string) (models.BankType, bool) {
	switch strings.ToLower(s) {
	case "kbank", "kasikorn":
		return models.BankKBank, true
	case "scb":
		return models.BankSCB, true
	case "ktb", "krungthai":
		return models.BankKTB, true
	case "bbl", "bangkok":
		return models.BankBBL, true
	case "ttb", "tmb":
		return models.BankTTB, true
	default:
		return models.BankUnknown, false
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
