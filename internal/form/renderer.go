// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Given a parsed FormDef (from definition.go) this file converts the
//   definition into safe, accessible HTML markup.  The renderer applies
//   HTML5 validation attributes, injects CSRF token and render-timestamp
//   hidden inputs, and honours optional pre-fill data (e.g. values from a
//   record being edited).
//
// Workflow
//   •  RenderForm looks up the FormDef by ID and writes each field via
//      writeField.
//   •  Required, minlength, maxlength, pattern, and placeholder attributes
//      are attached where relevant.  Select/radio options are rendered from
//      the YAML Options slice.  File inputs carry accept attributes.
//   •  A cryptographically strong CSRF token from csrf.go is embedded as a
//      hidden <input>, alongside a microsecond render timestamp used for
//      timing checks during submission validation.
//   •  The caller receives the final HTML as template.HTML so the
//      surrounding template does not double-escape the markup.
//
// Style
//   Output HTML is deliberately plain – no framework classes – so the site
//   stylesheet can target element selectors.  Each input gets
//   id="fld-{name}" and is wrapped in <div class="form-field">.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"time"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// Prefill provides initial field values keyed by field name.
	Prefill map[string]string
	// Errors maps field names to messages from a failed submission so the
	// re-rendered form shows them inline.
	Errors []ErrorField
}

// RenderForm returns the HTML markup for the specified form ID, embedding
// security tokens.  Callers typically pass the resulting template.HTML into
// a page template.
func RenderForm(formID string, opts RenderOptions) (template.HTML, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return "", fmt.Errorf("RenderForm: unknown form %q", formID)
	}

	errByField := make(map[string]string, len(opts.Errors))
	for _, e := range opts.Errors {
		errByField[e.Name] = e.Message
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="etas-form">` + "\n")

	if msg, ok := errByField[""]; ok {
		buf.WriteString(`<p class="form-error" role="alert">` + html.EscapeString(msg) + `</p>` + "\n")
	}

	// Iterate fields in definition order.
	for _, f := range fd.Fields {
		if err := writeField(&buf, &f, opts.Prefill, errByField[f.Name]); err != nil {
			return "", err
		}
	}

	// Hidden meta inputs.
	buf.WriteString(fmt.Sprintf(`<input type="hidden" name="csrf_token" value="%s">`+"\n", csrfGenerateToken()))
	buf.WriteString(fmt.Sprintf(`<input type="hidden" name="render_ts" value="%d">`+"\n", time.Now().UnixMicro()))

	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf, applying prefill,
// validation attributes, and any error message from a prior submission.
func writeField(buf *bytes.Buffer, f *FieldDef, prefill map[string]string, errMsg string) error {
	val := prefillValue(f.Name, prefill)

	buf.WriteString(`<div class="form-field">` + "\n")

	idAttr := `id="fld-` + html.EscapeString(f.Name) + `"`
	nameAttr := `name="` + html.EscapeString(f.Name) + `"`

	// Label first (for accessibility)
	buf.WriteString(`<label for="fld-` + html.EscapeString(f.Name) + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	switch f.Type {
	case "text", "date":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="` + f.Type + `"`)
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		if f.Required {
			buf.WriteString(` required`)
		}
		if f.MinLength > 0 {
			buf.WriteString(` minlength="` + strconv.Itoa(f.MinLength) + `"`)
		}
		if f.MaxLength > 0 {
			buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
		}
		if f.Pattern != "" {
			buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
		}
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")

	case "textarea":
		buf.WriteString(`<textarea ` + idAttr + ` ` + nameAttr)
		if f.Required {
			buf.WriteString(` required`)
		}
		if f.MaxLength > 0 {
			buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
		}
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		buf.WriteString(`>`)
		if val != "" {
			buf.WriteString(html.EscapeString(val))
		}
		buf.WriteString(`</textarea>` + "\n")

	case "select":
		buf.WriteString(`<select ` + idAttr + ` ` + nameAttr)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")
		if f.Placeholder != "" {
			buf.WriteString(`<option value="">` + html.EscapeString(f.Placeholder) + `</option>` + "\n")
		}
		for _, opt := range f.Options {
			sel := ""
			if val == opt {
				sel = ` selected`
			}
			buf.WriteString(`<option value="` + html.EscapeString(opt) + `"` + sel + `>` + html.EscapeString(opt) + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	case "radio":
		for i, opt := range f.Options {
			radioID := fmt.Sprintf("fld-%s-%d", f.Name, i)
			checked := ""
			if val == opt {
				checked = ` checked`
			}
			buf.WriteString(`<div class="radio-option">` + "\n")
			buf.WriteString(`<input id="` + radioID + `" name="` + html.EscapeString(f.Name) + `" type="radio" value="` + html.EscapeString(opt) + `"` + checked)
			if f.Required {
				buf.WriteString(` required`)
			}
			buf.WriteString(`>` + "\n")
			buf.WriteString(`<label for="` + radioID + `">` + html.EscapeString(opt) + `</label>` + "\n")
			buf.WriteString(`</div>` + "\n")
		}

	case "file":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="file"`)
		if f.Accept != "" {
			buf.WriteString(` accept="` + html.EscapeString(f.Accept) + `"`)
		}
		// A record being edited already has a stored photo, so the input is
		// only required on first submission.
		if f.Required && val == "" {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}

	if errMsg != "" {
		buf.WriteString(`<span class="error" aria-live="polite">` + html.EscapeString(errMsg) + `</span>` + "\n")
	} else {
		buf.WriteString(`<span class="error" aria-live="polite"></span>` + "\n")
	}

	buf.WriteString(`</div>` + "\n")
	return nil
}

// prefillValue returns previously submitted value or empty string.
func prefillValue(name string, pre map[string]string) string {
	if pre == nil {
		return ""
	}
	return pre[name]
}

// csrfGenerateToken is a thin wrapper so renderer reads cleanly and the
// unlikely generation failure degrades instead of panicking.
func csrfGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return token
}
