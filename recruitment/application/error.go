package application

import (
	"net/http"

	"github.com/Abraxas-365/hireform/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeSubmissionNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Submission ID not found")
	CodeStoreNotFound      = ErrRegistry.Register("STORE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "No data file found")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeStoreUnavailable   = ErrRegistry.Register("STORE_UNAVAILABLE", errx.TypeInternal, http.StatusInternalServerError, "Failed to access submission store")
	CodeCacheUnavailable   = ErrRegistry.Register("CACHE_UNAVAILABLE", errx.TypeInternal, http.StatusInternalServerError, "Failed to access latest submission cache")
	CodeSnapshotFailed     = ErrRegistry.Register("SNAPSHOT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to write submission snapshot")
)

// Helper functions
func ErrSubmissionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSubmissionNotFound)
}

func ErrStoreNotFound() *errx.Error {
	return ErrRegistry.New(CodeStoreNotFound)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrStoreUnavailable() *errx.Error {
	return ErrRegistry.New(CodeStoreUnavailable)
}

func ErrCacheUnavailable() *errx.Error {
	return ErrRegistry.New(CodeCacheUnavailable)
}

func ErrSnapshotFailed() *errx.Error {
	return ErrRegistry.New(CodeSnapshotFailed)
}
