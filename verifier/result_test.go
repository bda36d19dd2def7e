package verifier

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestChecks_MarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		checks       Checks
		want         string
		wantNoneSuch string
	}{
		{
			name:   "definitive positive probe",
			checks: Checks{SyntaxValid: true, DomainHasMX: true, Mailbox: MailboxExists},
			want:   `{"syntaxValid":true,"domainHasMx":true,"mailboxExists":true}`,
		},
		{
			name:   "definitive negative probe",
			checks: Checks{SyntaxValid: true, DomainHasMX: true, Mailbox: MailboxAbsent},
			want:   `{"syntaxValid":true,"domainHasMx":true,"mailboxExists":false}`,
		},
		{
			name:   "inconclusive probe",
			checks: Checks{SyntaxValid: true, DomainHasMX: true, Mailbox: MailboxUndetermined},
			want:   `{"syntaxValid":true,"domainHasMx":true,"mailboxExists":"undetermined"}`,
		},
		{
			name:   "probe never ran",
			checks: Checks{Mailbox: MailboxUnchecked},
			want:   `{"syntaxValid":false,"domainHasMx":false,"mailboxExists":"unchecked"}`,
		},
		{
			name:         "lookup-only pipeline omits the field",
			checks:       Checks{SyntaxValid: true, DomainHasMX: true},
			want:         `{"syntaxValid":true,"domainHasMx":true}`,
			wantNoneSuch: "mailboxExists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.checks)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			if string(b) != tt.want {
				t.Errorf("Marshal() = %s, want %s", b, tt.want)
			}

			if tt.wantNoneSuch != "" && strings.Contains(string(b), tt.wantNoneSuch) {
				t.Errorf("Expected %q to be absent from %s", tt.wantNoneSuch, b)
			}
		})
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	r := Result{
		Email:  "john@example.org",
		Valid:  true,
		Checks: Checks{SyntaxValid: true, DomainHasMX: true, Mailbox: MailboxUndetermined},
		Reason: ReasonProbeBlocked,
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["email"] != "john@example.org" || decoded["isValid"] != true {
		t.Errorf("Unexpected top level fields in %s", b)
	}

	checks, ok := decoded["checks"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a checks object in %s", b)
	}

	if checks["mailboxExists"] != "undetermined" {
		t.Errorf("Expected an undetermined mailbox, got %v", checks["mailboxExists"])
	}
}
