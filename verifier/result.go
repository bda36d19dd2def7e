package verifier

import (
	"encoding/json"
	"fmt"
)

// Mailbox is the tri-state outcome of the SMTP probe. The zero value means
// the probe stage isn't part of the pipeline at all, in which case the field
// is omitted from serialized results.
type Mailbox int

const (
	MailboxOmitted Mailbox = iota

	// MailboxUnchecked means the probe stage exists but never ran, because an
	// earlier stage terminated the pipeline.
	MailboxUnchecked

	// MailboxExists and MailboxAbsent are only ever produced by a completed
	// SMTP conversation with a definitive reply code.
	MailboxExists
	MailboxAbsent

	// MailboxUndetermined covers every probe that couldn't complete or ended
	// on an inconclusive reply code. It is never a guess at either extreme.
	MailboxUndetermined
)

func (m Mailbox) String() string {
	switch m {
	case MailboxExists:
		return "true"
	case MailboxAbsent:
		return "false"
	case MailboxUndetermined:
		return "undetermined"
	case MailboxUnchecked:
		return "unchecked"
	}

	return "omitted"
}

// MarshalJSON serializes the definitive states as booleans and the
// inconclusive ones as strings.
func (m Mailbox) MarshalJSON() ([]byte, error) {
	switch m {
	case MailboxExists:
		return []byte("true"), nil
	case MailboxAbsent:
		return []byte("false"), nil
	case MailboxUndetermined, MailboxUnchecked:
		return json.Marshal(m.String())
	}

	return nil, fmt.Errorf("mailbox state %d has no serialized form", int(m))
}

// Checks holds the per-stage outcomes of a verification.
type Checks struct {
	SyntaxValid bool
	DomainHasMX bool
	Mailbox     Mailbox
}

func (c Checks) MarshalJSON() ([]byte, error) {
	aux := struct {
		SyntaxValid bool     `json:"syntaxValid"`
		DomainHasMX bool     `json:"domainHasMx"`
		Mailbox     *Mailbox `json:"mailboxExists,omitempty"`
	}{
		SyntaxValid: c.SyntaxValid,
		DomainHasMX: c.DomainHasMX,
	}

	if c.Mailbox != MailboxOmitted {
		aux.Mailbox = &c.Mailbox
	}

	return json.Marshal(aux)
}

// Result is the complete outcome of one verification. It is fully populated
// when Verify returns and not mutated afterwards.
type Result struct {
	Email  string `json:"email"`
	Valid  bool   `json:"isValid"`
	Checks Checks `json:"checks"`
	Reason string `json:"reason"`
}

// The single retained reason per result. Whichever stage terminates the
// pipeline decides the wording; probe reasons carrying a reply code are
// formatted in place.
const (
	ReasonBadSyntax     = "Invalid email syntax."
	ReasonNoMXRecords   = "Domain does not have MX records."
	ReasonResolveFailed = "Could not resolve domain or find MX records."
	ReasonDeliverable   = "Email appears to be valid and deliverable."
	ReasonNoMailbox     = "Mailbox does not exist (SMTP check)."
	ReasonProbeBlocked  = "SMTP check failed (could be a firewall or temporary server issue)."
	ReasonLookupPassed  = "Syntax is valid and the domain accepts mail."
)
