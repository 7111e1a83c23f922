// internal/message/message_test.go
//
// Run: go test ./internal/message -v

package message

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ica-so/etas-portal/internal/view"
)

func TestApplicationReceivedBuildsBothBodies(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	view.Init(root)

	m := ApplicationReceived("a@example.com", "Amina", "1764821907")

	if len(m.To) != 1 || m.To[0] != "a@example.com" {
		t.Fatalf("recipients = %v", m.To)
	}
	for _, want := range []string{"Amina", "1764821907"} {
		if !strings.Contains(m.Text, want) {
			t.Errorf("text body missing %q", want)
		}
		if !strings.Contains(m.HTML, want) {
			t.Errorf("html body missing %q", want)
		}
	}
	if !strings.Contains(m.HTML, "<strong>") {
		t.Error("html body lost its markup")
	}
}
