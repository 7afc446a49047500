// Package storage abstracts where uploaded statements and generated
// reports live. Implementations cover local disk and Google Cloud
// Storage.
package storage

import "context"

// Storage provides document storage operations.
// The interface enables mocking and testing of storage functionality.
type Storage interface {
	// Upload stores data under the given object name.
	Upload(ctx context.Context, objectName string, data []byte) error

	// Download retrieves the bytes stored under the given object name.
	Download(ctx context.Context, objectName string) ([]byte, error)

	// Exists reports whether an object with the given name is stored.
	Exists(ctx context.Context, objectName string) (bool, error)
}
