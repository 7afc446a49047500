// Package api exposes the statement analyzer over HTTP.
package api

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/siamcredit/statement-analyzer/internal/analyzer"
	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/logger"
	"github.com/siamcredit/statement-analyzer/internal/masking"
	"github.com/siamcredit/statement-analyzer/internal/models"
	"github.com/siamcredit/statement-analyzer/internal/parser"
	"github.com/siamcredit/statement-analyzer/internal/storage"
	"github.com/siamcredit/statement-analyzer/internal/store"
)

const version = "1.0.0"

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	RequestID     string                 `json:"requestId,omitempty"`
	Bank          string                 `json:"bank,omitempty"`
	AccountNumber string                 `json:"accountNumber,omitempty"`
	Period        string                 `json:"period,omitempty"`
	Count         int                    `json:"count"`
	Analysis      *models.SalaryAnalysis `json:"analysis,omitempty"`
	Transactions  []models.Transaction   `json:"transactions"`
	Version       string                 `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API. Store and Docs are
// optional; when nil the analysis is not persisted.
type Handler struct {
	Log     zerolog.Logger
	Store   *store.Store
	Docs    storage.Storage
	MaskPII bool
}

// Register sets up the HTTP routes on the given app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/analyze", h.HandleAnalyze)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	log := logger.ForRequest(h.Log, requestID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, requestID, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, requestID, "Only PDF files are supported.")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, requestID, "Failed to open uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, requestID, "Failed to read uploaded file.")
	}

	opts, err := analysisOptions(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, requestID, err.Error())
	}

	pages, err := extractor.Extract(data, c.FormValue("password"))
	if err != nil {
		log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("extraction failed")
		switch {
		case errors.Is(err, extractor.ErrEncryptedNoPassword):
			return writeError(c, fiber.StatusBadRequest, requestID, "PDF is encrypted. Provide the password in form field 'password'.")
		case errors.Is(err, extractor.ErrWrongPassword):
			return writeError(c, fiber.StatusBadRequest, requestID, "Wrong PDF password.")
		default:
			return writeError(c, fiber.StatusUnprocessableEntity, requestID, fmt.Sprintf("PDF extraction failed: %v", err))
		}
	}

	bank, err := resolveBank(c.FormValue("bank"), pages)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, requestID, err.Error())
	}
	if bank == models.BankUnknown {
		return writeError(c, fiber.StatusUnprocessableEntity, requestID, "Unable to identify the bank. Supply form field 'bank' (kbank, scb, ktb, bbl, ttb).")
	}

	p := parser.New(bank)
	txs := p.Parse(pages)
	log.Info().Str("bank", string(bank)).Int("transactions", len(txs)).Msg("statement parsed")

	if h.MaskPII {
		txs, _ = masking.New().MaskTransactions(txs)
	}

	analysis := analyzer.Analyze(txs, opts)

	if h.Docs != nil {
		object := requestID + "/" + fileHeader.Filename
		if err := h.Docs.Upload(c.Context(), object, data); err != nil {
			log.Error().Err(err).Msg("failed to store uploaded statement")
		}
	}
	if h.Store != nil {
		if err := h.Store.SaveAnalysis(requestID, fileHeader.Filename, bank, &analysis, h.MaskPII); err != nil {
			log.Error().Err(err).Msg("failed to persist analysis")
		}
		detail := fmt.Sprintf("bank=%s transactions=%d approved=%t", bank, len(txs), analysis.Approved)
		if err := h.Store.SaveAuditLog(requestID, "analyze", detail); err != nil {
			log.Error().Err(err).Msg("failed to persist audit log")
		}
	}

	if txs == nil {
		txs = []models.Transaction{}
	}

	return c.JSON(AnalyzeResponse{
		Success:       true,
		RequestID:     requestID,
		Bank:          string(bank),
		AccountNumber: parser.FindAccountNumber(pages),
		Period:        parser.FindStatementPeriod(pages),
		Count:         len(txs),
		Analysis:      &analysis,
		Transactions:  txs,
		Version:       version,
	})
}

func analysisOptions(c *fiber.Ctx) (analyzer.Options, error) {
	var opts analyzer.Options

	if v := c.FormValue("expectedGross"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, fmt.Errorf("invalid expectedGross: %q", v)
		}
		opts.ExpectedGross = f
	}
	if v := c.FormValue("pvdRate"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 0.15 {
			return opts, fmt.Errorf("invalid pvdRate: %q (expected 0 to 0.15)", v)
		}
		opts.PVDRate = f
	}
	if v := c.FormValue("deductions"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, fmt.Errorf("invalid deductions: %q", v)
		}
		opts.ExtraDeductions = f
	}
	opts.Employer = c.FormValue("employer")

	switch v := strings.ToLower(c.FormValue("incomeType")); v {
	case "", "salaried":
		opts.IncomeType = models.IncomeSalaried
	case "self_employed", "self-employed":
		opts.IncomeType = models.IncomeSelfEmployed
	default:
		return opts, fmt.Errorf("unknown incomeType: %q (use salaried or self_employed)", v)
	}

	return opts, nil
}

func resolveBank(param string, pages []extractor.Page) (models.BankType, error) {
	if param == "" {
		return parser.Detect(pages), nil
	}
	switch strings.ToLower(param) {
	case "kbank", "kasikorn":
		return models.BankKBank, nil
	case "scb":
		return models.BankSCB, nil
	case "ktb", "krungthai":
		return models.BankKTB, nil
	case "bbl", "bangkok":
		return models.BankBBL, nil
	case "ttb", "tmb":
		return models.BankTTB, nil
	default:
		return models.BankUnknown, fmt.Errorf("unknown bank: %q. Use kbank, scb, ktb, bbl, or ttb", param)
	}
}

func writeError(c *fiber.Ctx, status int, requestID, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success:   false,
		RequestID: requestID,
		Error:     msg,
	})
}
