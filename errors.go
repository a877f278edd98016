package resultview

import "errors"

// Sentinel errors for library operations.
var (
	// Search request validation errors.
	ErrEmptyTerm      = errors.New("search term is required")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidSortBy  = errors.New("invalid sortby")
	ErrInvalidCount   = errors.New("searchnumber must be between 1 and 100")
	ErrInvalidEngine  = errors.New("invalid render engine")
	ErrInvalidPage    = errors.New("invalid page settings")
	ErrRenderInternal = errors.New("internal render error")
	ErrPoolClosed     = errors.New("renderer pool closed")

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
