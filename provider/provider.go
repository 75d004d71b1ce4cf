// Package provider loads case reports from storage.
//
// Reports are exchanged as YAML documents (see Decode) and stored either as
// one file per case in a directory or in a SQLite database. Providers return
// fully resolved reports: image files are read and embedded before the
// report reaches the layout engine.
package provider

import (
	"context"
	"errors"

	"github.com/lgodoyplay/cerco-sub000/model"
)

var (
	// ErrNotFound is returned when no report exists for a case ID.
	ErrNotFound = errors.New("provider: report not found")
	// ErrInvalidDocument is returned for malformed report documents.
	ErrInvalidDocument = errors.New("provider: invalid report document")
)

// Provider resolves a case ID to a report.
type Provider interface {
	Report(ctx context.Context, caseID string) (*model.Report, error)
}

// Lister is implemented by providers that can enumerate their case IDs.
type Lister interface {
	CaseIDs(ctx context.Context) ([]string, error)
}
