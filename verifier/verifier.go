// Package verifier implements a three-stage email verification pipeline:
// syntax, MX lookup and an optional SMTP mailbox probe. Stages run strictly
// in order, each consuming only the previous stage's confirmed output, and
// the first terminal outcome decides the result.
//
// The confidence policy is deliberately forgiving towards probe failures:
// once syntax and MX check out, an inconclusive probe does not invalidate
// the address. Many networks block outbound port 25 and absence of proof is
// not proof of absence.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailvet/mailvet/verifier/mxresolver"
)

const defaultLookupTimeout = 10 * time.Second

// Option configures an EmailVerifier.
type Option func(v *EmailVerifier)

// WithProber enables the mailbox probe stage.
func WithProber(p MailboxProber) Option {
	return func(v *EmailVerifier) {
		v.prober = p
	}
}

// WithLookupTimeout bounds the MX resolution call. Defaults to 10 seconds.
func WithLookupTimeout(d time.Duration) Option {
	return func(v *EmailVerifier) {
		if d > 0 {
			v.lookupTimeout = d
		}
	}
}

// New constructs a verifier around an MX resolution strategy. Without
// WithProber the pipeline is lookup-only and a result is valid iff syntax
// and MX both pass.
func New(resolver mxresolver.Resolver, options ...Option) *EmailVerifier {
	v := &EmailVerifier{
		resolver:      resolver,
		lookupTimeout: defaultLookupTimeout,
	}

	for _, o := range options {
		o(v)
	}

	return v
}

type EmailVerifier struct {
	resolver      mxresolver.Resolver
	prober        MailboxProber
	lookupTimeout time.Duration
}

// Verify runs the pipeline for one candidate address. It always returns a
// fully populated Result and never an error: every failure mode, including
// network trouble, is part of the result's vocabulary. The verifier keeps no
// state between calls.
func (v *EmailVerifier) Verify(ctx context.Context, email string) Result {
	result := Result{Email: email}
	if v.prober != nil {
		result.Checks.Mailbox = MailboxUnchecked
	}

	parts, ok := checkSyntax(email)
	if !ok {
		result.Reason = ReasonBadSyntax
		return result
	}

	result.Checks.SyntaxValid = true

	host, err := v.resolveMX(ctx, parts.Domain)
	if err != nil {
		if errors.Is(err, mxresolver.ErrNoRecords) {
			result.Reason = ReasonNoMXRecords
		} else {
			result.Reason = ReasonResolveFailed
		}

		return result
	}

	result.Checks.DomainHasMX = true

	if v.prober == nil {
		result.Valid = true
		result.Reason = ReasonLookupPassed
		return result
	}

	outcome := v.prober.Probe(ctx, host, parts.Address)
	result.Checks.Mailbox = outcome.Mailbox

	switch outcome.Mailbox {
	case MailboxExists:
		result.Valid = true
		result.Reason = ReasonDeliverable
	case MailboxAbsent:
		result.Reason = ReasonNoMailbox
	default:
		// Syntax and MX already passed, the probe not completing doesn't
		// override that positive signal.
		result.Valid = true
		if outcome.Code > 0 {
			result.Reason = fmt.Sprintf("SMTP check was inconclusive (Code: %d). This could be a catch-all address.", outcome.Code)
		} else {
			result.Reason = ReasonProbeBlocked
		}
	}

	return result
}

// resolveMX queries the configured strategy and hands back the first
// exchange host in response order. No priority comparison is done.
func (v *EmailVerifier) resolveMX(ctx context.Context, domain string) (string, error) {
	ctx, cancel := getEarliestDeadlineCTX(ctx, v.lookupTimeout)
	defer cancel()

	hosts, err := v.resolver.LookupMX(ctx, domain)
	if err != nil {
		return "", err
	}

	return hosts[0], nil
}

// getEarliestDeadlineCTX returns a context honouring whichever deadline comes
// first: the parent's or now+ttl.
func getEarliestDeadlineCTX(ctx context.Context, ttl time.Duration) (context.Context, context.CancelFunc) {
	if deadline, set := ctx.Deadline(); set && deadline.Before(time.Now().Add(ttl)) {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, ttl)
}
