// internal/form/submit.go
//
// Forms subsystem: consolidated Submit helpers.
//
// Context
//   Component handlers want one call that parses the POST body, validates
//   input, and returns the clean map or a validation error.  HandleSubmit
//   (url-encoded) and HandleSubmitMultipart (with file uploads) provide
//   that convenience so handler code stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
)

// HandleSubmit parses r, validates against formID, and returns the
// sanitized data.  On validation failure it returns an error recognisable
// via IsValidationError; FieldErrors extracts the per-field messages for
// re-rendering.
func HandleSubmit(formID string, r *http.Request) (map[string]any, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	clean, errs := ValidateForm(formID, r.PostForm)
	if len(errs) > 0 {
		return nil, validationError{Fields: errs}
	}
	return clean, nil
}

// HandleSubmitMultipart is HandleSubmit for multipart posts that include
// file fields.  Validated uploads are returned keyed by field name.
func HandleSubmitMultipart(formID string, r *http.Request) (map[string]any, map[string]*Upload, error) {
	clean, uploads, errs := ValidateMultipart(formID, r)
	if len(errs) > 0 {
		return nil, nil, validationError{Fields: errs}
	}
	return clean, uploads, nil
}

// IsValidationError reports whether err came from failed validation.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// FieldErrors returns the per-field messages carried by a validation error,
// or nil when err is of another kind.
func FieldErrors(err error) []ErrorField {
	var ve validationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
