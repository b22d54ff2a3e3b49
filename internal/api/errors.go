package api

import "fmt"

// UnreadableDocumentError indicates an uploaded document carries no
// extractable text layer (e.g. a scanned image-only PDF).
type UnreadableDocumentError struct {
	Name string
}

func (e UnreadableDocumentError) Error() string {
	return fmt.Sprintf("document '%s' has no extractable text layer", e.Name)
}

// MissingCredentialError indicates the credential environment variable for
// a selected vendor is unset. Raised at construction time, fatal at startup.
type MissingCredentialError struct {
	Vendor   string
	Variable string
}

func (e MissingCredentialError) Error() string {
	return fmt.Sprintf("provider '%s' requires environment variable '%s'", e.Vendor, e.Variable)
}

// GenerationUnavailableError indicates a remote text-generation call failed.
// The caller decides whether to retry; nothing is retried automatically.
type GenerationUnavailableError struct {
	Cause error
}

func (e GenerationUnavailableError) Error() string {
	return fmt.Sprintf("text generation unavailable: %v", e.Cause)
}

func (e GenerationUnavailableError) Unwrap() error {
	return e.Cause
}

// SearchUnavailableError indicates the external bibliographic search call
// failed. The retrieval boundary degrades to an empty result set instead of
// propagating this to the session.
type SearchUnavailableError struct {
	Cause error
}

func (e SearchUnavailableError) Error() string {
	return fmt.Sprintf("bibliographic search unavailable: %v", e.Cause)
}

func (e SearchUnavailableError) Unwrap() error {
	return e.Cause
}
