package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrSessionNotFound     = errors.New("quote session not found")
	ErrSessionFinalized    = errors.New("quote session is already finalized")
	ErrItemNotFound        = errors.New("line item not found")
	ErrEmptyQuotation      = errors.New("quotation has no line items")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrImageTooLarge       = errors.New("image exceeds maximum allowed size")
	ErrExtractionFailed    = errors.New("price list extraction failed")
	ErrInvalidRate         = errors.New("percentage must be between 0 and 100")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrShareFailed         = errors.New("sharing quotation by email failed")
)

// ErrStaleRun marks a response from an extraction or match run that was
// superseded before it returned. Discarded silently, never user-facing.
var ErrStaleRun = errors.New("stale run response discarded")
