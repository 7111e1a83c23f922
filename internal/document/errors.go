// internal/document/errors.go
//
// Pipeline error taxonomy.
//
// Context
//   Every stage of the document pipeline fails fast with one of these
//   typed errors so the export flow (internal/export) can map failures to
//   the right user-visible state: not-found pages, inline validation
//   messages, or the generic "unable to generate document" notice.  Checks
//   use errors.As, so wrapping with fmt.Errorf("%w") is fine.
//
//------------------------------------------------------------------------------

package document

import "fmt"

// LookupError signals zero or ambiguous matches during record fetch.
type LookupError struct {
	Key string // the id or passport number searched for
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("record not found for %q", e.Key)
}

// ValidationError signals a missing precondition before pipeline entry,
// such as an empty passport number in protected mode.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// RenderCaptureError signals a rasterization failure.  Retryable by the
// user; no partial output is ever produced.
type RenderCaptureError struct {
	Stage string
	Err   error
}

func (e *RenderCaptureError) Error() string {
	return fmt.Sprintf("render capture failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderCaptureError) Unwrap() error { return e.Err }

// PackagingError signals PDF construction or encryption failure.
type PackagingError struct {
	Err error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("pdf packaging failed: %v", e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// DeliveryError signals that a finished PDF could not be handed to the
// client.  Distinct from the others because the document itself was
// produced successfully.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("pdf delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
