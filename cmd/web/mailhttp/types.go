package mailhttp

import (
	"errors"

	"github.com/mailvet/mailvet/verifier"
)

var (
	ErrMissingBody            = errors.New("missing body")
	ErrInvalidRequest         = errors.New("request is invalid")
	ErrBodyTooLarge           = errors.New("request body too large")
	ErrUnsupportedContentType = errors.New("unsupported content-type")
	ErrMissingEmailParameter  = errors.New("missing or empty email parameter")
)

// VerifyRequest is the JSON body of a POST /verify call. GET callers pass the
// address as the "email" query parameter instead.
type VerifyRequest struct {
	Email string `json:"email"`
}

// VerifyResponse is the serialized pipeline result, with an optional domain
// alternative and an error slot for request-level failures.
type VerifyResponse struct {
	Email       string          `json:"email"`
	Valid       bool            `json:"isValid"`
	Checks      verifier.Checks `json:"checks"`
	Reason      string          `json:"reason"`
	Alternative string          `json:"alternative,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// IndexResponse is the banner served on the root path.
type IndexResponse struct {
	Message string `json:"message"`
	Usage   string `json:"usage"`
}
