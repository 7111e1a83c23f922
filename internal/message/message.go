// internal/message/message.go
//
// Messaging stub.
//
// Context
//   The apply component enqueues a confirmation email after a successful
//   application submission, and the export flow may later notify officers
//   of delivery failures.  Until the real queue/worker pool is finished,
//   this stub logs the payload and returns nil so callers proceed without
//   blocking.
//
//   Replace the body of each Enqueue* function with code that publishes to
//   your queue of choice (e.g., Redis, NATS, SQS) when ready.
//
//------------------------------------------------------------------------------

package message

import (
	"context"

	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/view"
)

// Email represents a basic outbound email job.
type Email struct {
	To      []string
	Subject string
	Text    string
	HTML    string // optional styled alternative to Text
}

// EnqueueEmail logs the email payload.  Swap with real queue publisher later.
func EnqueueEmail(ctx context.Context, msg Email) error {
	zap.S().Infow("queue email",
		"to", msg.To,
		"subject", msg.Subject,
		"text_len", len(msg.Text),
	)
	return nil
}

// ApplicationReceived builds the standard confirmation email for a newly
// submitted travel-authorization application.  The HTML body comes from
// the apply component's email template; the plain-text part always
// carries the full message so a failed template render degrades to
// text-only.
func ApplicationReceived(to, givenName, etasNumber string) Email {
	m := Email{
		To:      []string{to},
		Subject: "Travel authorization application received",
		Text: "Dear " + givenName + ",\n\n" +
			"Your electronic travel authorization application has been received.  " +
			"Your reference number is " + etasNumber + ".  " +
			"Keep this number for your records; you will need it to check your application status.\n\n" +
			"Immigration and Citizenship Agency\n",
	}

	body, err := view.RenderToString("apply", "email_received", map[string]any{
		"GivenName":  givenName,
		"EtasNumber": etasNumber,
	})
	if err != nil {
		zap.S().Warnw("email html body render failed", "err", err)
		return m
	}
	m.HTML = string(body)
	return m
}
