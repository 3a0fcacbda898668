package application

import (
	"context"
	"io"

	"github.com/Abraxas-365/hireform/pkg/kernel"
)

// Repository is the append-only durable store of submissions
type Repository interface {
	// Init prepares the durable medium; safe to call repeatedly
	Init(ctx context.Context) error

	// Append persists one submission
	Append(ctx context.Context, submission *Submission) error

	// FindByID returns the first stored submission with the given ID
	FindByID(ctx context.Context, id kernel.SubmissionID) (*Submission, error)

	// WriteCSV writes every stored submission, header first
	WriteCSV(ctx context.Context, w io.Writer) error
}

// LatestCache holds the most recently accepted submission
type LatestCache interface {
	// Set replaces the cached submission
	Set(ctx context.Context, submission *Submission) error

	// Get returns the cached submission, or nil if nothing was set
	Get(ctx context.Context) (*Submission, error)
}
