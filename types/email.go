package types

import (
	"errors"
	"strings"
)

// The practical upper bound for an address, per RFC 5321's path limits.
const maxAddressLength = 254

var (
	ErrInvalidEmailAddress = errors.New("invalid e-mail address, address is missing @")
	ErrAddressTooLong      = errors.New("invalid e-mail address, address exceeds maximum length")
)

// NewEmailParts splits a candidate address into its local and domain parts.
// The domain is lower-cased, the local part is left untouched.
func NewEmailParts(emailAddress string) (EmailParts, error) {
	if len(emailAddress) > maxAddressLength {
		return EmailParts{}, ErrAddressTooLong
	}

	i := strings.LastIndex(emailAddress, "@")
	if 0 >= i || i >= len(emailAddress)-1 {
		return EmailParts{}, ErrInvalidEmailAddress
	}

	return EmailParts{
		Address: emailAddress,
		Local:   emailAddress[:i],
		Domain:  strings.ToLower(emailAddress[i+1:]),
	}, nil
}

// NewEmailFromParts constructs EmailParts from an already split address. It
// performs no validation beyond joining the two.
func NewEmailFromParts(local, domain string) EmailParts {
	domain = strings.ToLower(domain)

	return EmailParts{
		Address: local + "@" + domain,
		Local:   local,
		Domain:  domain,
	}
}

type EmailParts struct {
	Address string
	Local   string
	Domain  string
}
