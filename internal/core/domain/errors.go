package domain

import "errors"

// ============================================================================
// Assembly Store Errors
// ============================================================================

// Not found errors
var (
	ErrAssemblyNotFound = errors.New("assembly not found")
	ErrArtifactNotFound = errors.New("exported artifact not found")
	ErrParentNotFound   = errors.New("parent assembly not found")
)

// Conflict errors
var (
	ErrNameConflict   = errors.New("an active assembly with this name already exists")
	ErrAlreadyDeleted = errors.New("assembly is already deleted")
)

// Validation errors
var (
	ErrInvalidName       = errors.New("assembly name is required")
	ErrInvalidKind       = errors.New("unknown assembly kind")
	ErrInvalidParameters = errors.New("invalid assembly parameters")
	ErrInvalidFormat     = errors.New("unsupported export format")
)

// ============================================================================
// Geometry Errors
// ============================================================================

var (
	ErrUnsupportedPattern = errors.New("unsupported bond pattern")
	ErrUnsupportedKind    = errors.New("no assembler registered for this assembly kind")
	ErrExportFailed       = errors.New("geometry export failed")
)
