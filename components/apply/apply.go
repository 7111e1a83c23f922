// components/apply/apply.go
//
// Apply Component – the eTAS application form.
//
// Context
//   GET  /apply         renders the YAML-defined application form; with
//                       ?id= it prefills from an existing record for edit.
//   POST /apply         validates the multipart submission, uploads the
//                       photo, creates or updates the applicant row, and
//                       redirects to the document preview.
//
//   On create the photo is mandatory and an eTAS number is minted by the
//   repository.  On edit the number never changes and a skipped photo
//   keeps the stored one.
//
//------------------------------------------------------------------------------

package apply

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/form"
	"github.com/ica-so/etas-portal/internal/message"
	"github.com/ica-so/etas-portal/internal/metrics"
	"github.com/ica-so/etas-portal/internal/storage"
	"github.com/ica-so/etas-portal/internal/view"
)

const formID = "apply/application"

var _ component.Component = (*Comp)(nil)

type Comp struct {
	app *component.App
}

func (c *Comp) Name() string { return "apply" }

func (c *Comp) Register(app *component.App, r chi.Router) {
	c.app = app
	r.Get("/apply", c.handleGet)
	r.Post("/apply", c.handlePost)
}

func (c *Comp) handleGet(w http.ResponseWriter, r *http.Request) {
	var prefill map[string]string
	editID := r.URL.Query().Get("id")
	if editID != "" {
		rec, err := c.app.Repo.ByID(r.Context(), editID)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		prefill = recordPrefill(rec)
	}
	c.renderForm(w, form.RenderOptions{Prefill: prefill}, editID)
}

func (c *Comp) handlePost(w http.ResponseWriter, r *http.Request) {
	editID := r.URL.Query().Get("id")

	clean, uploads, err := form.HandleSubmitMultipart(formID, r)
	if err != nil {
		if form.IsValidationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			c.renderForm(w, form.RenderOptions{
				Prefill: submittedValues(r),
				Errors:  form.FieldErrors(err),
			}, editID)
			return
		}
		zap.S().Errorw("apply submit failed", "err", err)
		http.Error(w, "unable to process application", http.StatusInternalServerError)
		return
	}

	rec := recordFromForm(clean)

	// First submission requires a photo; repository Update keeps the old
	// one when none is provided on edit.
	if up, ok := uploads["photo"]; ok {
		object := storage.PhotoObjectName(rec.PassportNumber, up.Filename)
		url, err := c.app.Store.Upload(r.Context(), storage.PhotoBucket, object, up.Data, up.ContentType)
		if err != nil {
			zap.S().Errorw("photo upload failed", "err", err)
			metrics.ApplicationErrors.Inc()
			http.Error(w, "unable to store photo", http.StatusInternalServerError)
			return
		}
		rec.PhotoURL = url
	} else if editID == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		c.renderForm(w, form.RenderOptions{
			Prefill: submittedValues(r),
			Errors:  []form.ErrorField{{Name: "photo", Message: "A passport photo is required."}},
		}, editID)
		return
	}

	if editID != "" {
		rec.ID = editID
		err = c.app.Repo.Update(r.Context(), rec)
	} else {
		err = c.app.Repo.Create(r.Context(), rec)
	}
	if err != nil {
		zap.S().Errorw("applicant save failed", "err", err, "edit", editID != "")
		metrics.ApplicationErrors.Inc()
		http.Error(w, "unable to save application", http.StatusInternalServerError)
		return
	}

	metrics.ApplicationsSubmitted.Inc()
	if editID == "" && rec.Email != "" {
		_ = message.EnqueueEmail(r.Context(),
			message.ApplicationReceived(rec.Email, rec.GivenName, rec.EtasNumber))
	}

	http.Redirect(w, r, "/document/preview?id="+rec.ID, http.StatusSeeOther)
}

func (c *Comp) renderForm(w http.ResponseWriter, opts form.RenderOptions, editID string) {
	markup, err := form.RenderForm(formID, opts)
	if err != nil {
		http.Error(w, "form unavailable", http.StatusInternalServerError)
		return
	}
	action := "/apply"
	if editID != "" {
		action = "/apply?id=" + editID
	}
	data := map[string]any{
		"Head":   view.Head("eTAS Application – eTAS Portal"),
		"Form":   markup,
		"Action": action,
		"Edit":   editID != "",
	}
	if err := view.Render(w, "apply", "apply", data, view.CacheDefault); err != nil {
		zap.S().Errorw("apply template render failed", "err", err)
	}
}

// recordFromForm maps sanitized form values onto a Record.  Passport
// numbers are stored uppercased; the repository lookups rely on that.
func recordFromForm(clean map[string]any) *applicant.Record {
	get := func(key string) string {
		v, _ := clean[key].(string)
		return v
	}
	rec := &applicant.Record{
		GivenName:          get("given_name"),
		Surname:            get("surname"),
		DateOfBirth:        get("date_of_birth"),
		Sex:                get("sex"),
		Email:              get("email"),
		Nationality:        get("nationality"),
		PassportNumber:     get("passport_number"),
		PassportIssueDate:  get("passport_issue_date"),
		PassportExpiryDate: get("passport_expiry_date"),
		VisitPurpose:       get("visit_purpose"),
		Sponsor:            get("sponsor"),
	}
	rec.PassportNumber = strings.ToUpper(rec.PassportNumber)
	return rec
}

// submittedValues echoes raw posted text back into the re-rendered form.
func submittedValues(r *http.Request) map[string]string {
	vals := make(map[string]string)
	if r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				vals[k] = v[0]
			}
		}
	}
	return vals
}

// recordPrefill projects a stored record back into form values for edit.
func recordPrefill(rec *applicant.Record) map[string]string {
	return map[string]string{
		"given_name":           rec.GivenName,
		"surname":              rec.Surname,
		"date_of_birth":        rec.DateOfBirth,
		"sex":                  rec.Sex,
		"email":                rec.Email,
		"nationality":          rec.Nationality,
		"passport_number":      rec.PassportNumber,
		"passport_issue_date":  rec.PassportIssueDate,
		"passport_expiry_date": rec.PassportExpiryDate,
		"visit_purpose":        rec.VisitPurpose,
		"sponsor":              rec.Sponsor,
		"photo":                rec.PhotoURL,
	}
}

func init() {
	component.Register(&Comp{})
}
