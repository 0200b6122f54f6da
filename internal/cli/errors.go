// Package cli implements the ptrack command-line interface.
package cli

import (
	"errors"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/importer"
	"github.com/portfolio-labs/ptrack/internal/lastresults"
	"github.com/portfolio-labs/ptrack/internal/store"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Configuration errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Lookup errors
	ErrProjectNotFound = "PROJECT_NOT_FOUND"
	ErrNoLastResults   = "NO_LAST_RESULTS"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Database errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrDatabaseLocked = "DATABASE_LOCKED"

	// Validation errors
	ErrImportInvalid = "IMPORT_INVALID"
	ErrInvalidInput  = "INVALID_INPUT"

	// Unexpected failures
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnDateMissing     = "DATE_MISSING"
	WarnDateUnparseable = "DATE_UNPARSEABLE"
	WarnDateAmbiguous   = "DATE_AMBIGUOUS"
	WarnDateInverted    = "DATE_RANGE_INVERTED"
	WarnDataQuality     = "DATA_QUALITY"
	WarnStateNotSaved   = "STATE_NOT_SAVED"
	WarnResultsNotSaved = "LAST_RESULTS_NOT_SAVED"
)

// storeErrorCode maps store errors onto stable codes.
func storeErrorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrProjectNotFound
	case errors.Is(err, store.ErrLocked):
		return ErrDatabaseLocked
	default:
		return ErrDatabaseError
	}
}

// importErrorCode maps importer errors onto stable codes.
func importErrorCode(err error) string {
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat), errors.Is(err, importer.ErrNoNameColumn):
		return ErrInvalidInput
	case errors.Is(err, dates.ErrInvalidFormat):
		return ErrConfigInvalid
	default:
		return ErrImportInvalid
	}
}

// lastResultsErrorCode maps numbered-lookup errors onto stable codes.
func lastResultsErrorCode(err error) string {
	switch {
	case errors.Is(err, lastresults.ErrNoLastResults):
		return ErrNoLastResults
	case errors.Is(err, lastresults.ErrNumberOutOfRange):
		return ErrInvalidInput
	default:
		return ErrInternal
	}
}
