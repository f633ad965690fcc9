package types

import "errors"

// Sentinel errors for the failure kinds burrow distinguishes. Callers match
// with errors.Is; packages wrap these with context via fmt.Errorf("...: %w").
var (
	// ErrNotFound reports that a lookup or query matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports malformed configuration content (rule, block,
	// identity, version string) or a violated caller contract.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable reports that the configuration store or a schema
	// directory could not be read or written.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSchemaMismatch reports that a document satisfies no known schema
	// version.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStoreUnavailable reports whether err is or wraps ErrStoreUnavailable.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsSchemaMismatch reports whether err is or wraps ErrSchemaMismatch.
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// ExitCode maps an error chain to the result code the CLI exits with. A nil
// error is CodeOK; an error outside the closed set is CodeError.
func ExitCode(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, ErrSchemaMismatch):
		return CodeSchemaMismatch
	default:
		return CodeError
	}
}
