package verifier

import (
	"net/mail"
	"strings"

	"github.com/mailvet/mailvet/types"
)

// checkSyntax validates the candidate against the address grammar and, on
// success, hands the split parts to the next stage. It checks for "common
// sense" syntax and doesn't try to be fully RFC compliant.
func checkSyntax(email string) (types.EmailParts, bool) {
	parts, err := types.NewEmailParts(email)
	if err != nil {
		return types.EmailParts{}, false
	}

	// Weeds out the forms the split alone doesn't catch: display names,
	// folding whitespace, unbalanced quoting.
	if _, err := mail.ParseAddress(email); err != nil {
		return types.EmailParts{}, false
	}

	if !looksLikeValidLocalPart(parts.Local) {
		return types.EmailParts{}, false
	}

	if !looksLikeValidDomain(parts.Domain) {
		return types.EmailParts{}, false
	}

	return parts, true
}

// looksLikeValidLocalPart checks the local part against the unquoted grammar.
// A fully quoted local part is accepted as-is, mail.ParseAddress already
// vetted the quoting.
func looksLikeValidLocalPart(local string) bool {
	length := len(local)
	if length < 1 || length > 64 {
		return false
	}

	if length > 2 && local[0] == '"' && local[length-1] == '"' {
		return true
	}

	for i, c := range local {
		switch {
		case 48 <= c && c <= 57 /* 0-9 */ :
		case 65 <= c && c <= 90 /* A-Z */ :
		case 97 <= c && c <= 122 /* a-z */ :
		case c == 46 && 0 < i && i < length-1 /* . not first or last */ :

		case strings.ContainsRune("!#$%&'*+-/=?^_`{|}~", c):
		default:
			return false
		}
	}

	return !strings.Contains(local, "..")
}

// looksLikeValidDomain requires at least two labels and a plausible top-level
// label. IP literals and single-label hosts are rejected, mail isn't routed
// to those in the flows this serves.
func looksLikeValidDomain(domain string) bool {
	length := len(domain)
	if 3 >= length || length >= 253 {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if !isValidLabel(label) {
			return false
		}
	}

	return isValidTLDLabel(labels[len(labels)-1])
}

func isValidLabel(label string) bool {
	length := len(label)
	if length < 1 || length > 63 {
		return false
	}

	for i, c := range label {
		switch {
		case 48 <= c && c <= 57 /* 0-9 */ :
		case 65 <= c && c <= 90 /* A-Z */ :
		case 97 <= c && c <= 122 /* a-z */ :
		case c == 45 && 0 < i && i < length-1 /* dash - */ :
		default:
			return false
		}
	}

	return true
}

// isValidTLDLabel rejects top-level labels that can't occur in the public
// root: too short, or entirely numeric.
func isValidTLDLabel(label string) bool {
	if len(label) < 2 {
		return false
	}

	for _, c := range label {
		if c < '0' || c > '9' {
			return true
		}
	}

	return false
}
