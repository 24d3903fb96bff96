// Package asset talks to the external image host. Products reference the
// public URLs it returns; the object keys are kept alongside so images can
// be deleted when a product is replaced or removed.
package asset

import (
	"context"
	"io"
)

// Stored describes one uploaded object.
type Stored struct {
	Key string
	URL string
}

type Store interface {
	// Upload writes the object under a generated key with the given
	// extension and returns its key and public URL.
	Upload(ctx context.Context, ext string, contentType string, body io.Reader) (Stored, error)

	// Delete removes the object. Callers treat failures as best-effort:
	// log and move on.
	Delete(ctx context.Context, key string) error
}
