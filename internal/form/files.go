// internal/form/files.go
//
// Forms subsystem: multipart submissions with file uploads.
//
// Context
//   The apply form includes a passport-style photo upload.  This file
//   extends validation to multipart requests: text fields go through the
//   same ValidateForm path, and "file" fields are checked against the
//   definition's accept list and size cap.
//
// Notes
//   •  Request-wide parse memory is capped at 8 MB; individual field caps
//      come from FieldDef.MaxBytes (default 2 MB).
//   •  Content type is taken from the part header and double-checked by
//      sniffing the leading bytes, since browsers occasionally lie.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

const (
	parseMemoryLimit   = 8 << 20 // multipart parse buffer
	defaultFileMaxSize = 2 << 20 // per-file cap when the definition omits one
)

// Upload is a validated file field ready for storage.
type Upload struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// ValidateMultipart parses and validates a multipart form post for formID.
// Text fields are sanitized exactly as in ValidateForm; file fields are
// returned separately keyed by field name.
func ValidateMultipart(formID string, r *http.Request) (map[string]any, map[string]*Upload, []ErrorField) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return nil, nil, []ErrorField{{Name: "", Message: "Unknown form."}}
	}

	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		return nil, nil, []ErrorField{{Name: "", Message: "Could not read form data.  Please retry."}}
	}

	clean, errs := ValidateForm(formID, url.Values(r.MultipartForm.Value))
	if len(errs) > 0 {
		return nil, nil, errs
	}

	uploads := make(map[string]*Upload)
	for _, f := range fd.Fields {
		if f.Type != "file" {
			continue
		}
		up, msg := readUpload(r, &f)
		if msg != "" {
			errs = append(errs, ErrorField{f.Name, msg})
			continue
		}
		if up != nil {
			uploads[f.Name] = up
		}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}
	return clean, uploads, nil
}

// readUpload pulls one file field out of the parsed request.  A nil Upload
// with empty message means the optional field was left blank.
func readUpload(r *http.Request, f *FieldDef) (*Upload, string) {
	file, hdr, err := r.FormFile(f.Name)
	if err == http.ErrMissingFile {
		if f.Required {
			return nil, requiredMsg(f)
		}
		return nil, ""
	}
	if err != nil {
		return nil, "Upload could not be read."
	}
	defer file.Close()

	limit := int64(f.MaxBytes)
	if limit <= 0 {
		limit = defaultFileMaxSize
	}
	if hdr.Size > limit {
		return nil, fmt.Sprintf("File exceeds the %d KB limit.", limit/1024)
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "Upload could not be read."
	}
	if int64(len(data)) > limit {
		return nil, fmt.Sprintf("File exceeds the %d KB limit.", limit/1024)
	}

	ct := sniffContentType(hdr, data)
	if f.Accept != "" && !acceptMatches(f.Accept, ct) {
		return nil, invalidMsg(f)
	}

	return &Upload{
		FieldName:   f.Name,
		Filename:    hdr.Filename,
		ContentType: ct,
		Data:        data,
	}, ""
}

// sniffContentType prefers detection over the declared part header.
func sniffContentType(hdr *multipart.FileHeader, data []byte) string {
	if ct := http.DetectContentType(data); ct != "application/octet-stream" {
		return ct
	}
	return hdr.Header.Get("Content-Type")
}

// acceptMatches implements the subset of the HTML accept attribute we use:
// exact types ("image/png") and wildcard families ("image/*"), comma
// separated.
func acceptMatches(accept, ct string) bool {
	for _, spec := range strings.Split(accept, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if strings.HasSuffix(spec, "/*") {
			if strings.HasPrefix(ct, strings.TrimSuffix(spec, "*")) {
				return true
			}
			continue
		}
		if strings.EqualFold(spec, ct) {
			return true
		}
	}
	return false
}
