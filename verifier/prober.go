package verifier

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"net/textproto"
	"time"
)

// ProbeOutcome is what a mailbox probe hands back to the pipeline. Code is
// the SMTP reply code when the conversation got far enough to read one, Err
// the underlying failure for inconclusive outcomes.
type ProbeOutcome struct {
	Mailbox Mailbox
	Code    int
	Err     error
}

// MailboxProber asks a mail exchanger whether it will accept mail for the
// address, without delivering anything.
type MailboxProber interface {
	Probe(ctx context.Context, mxHost string, address string) ProbeOutcome
}

const (
	smtpPort            = "25"
	defaultProbeTimeout = 10 * time.Second
)

// NewSMTPProber returns a prober that identifies itself as heloDomain and
// declares mailFrom as the (synthetic) sender. A non-positive timeout
// defaults to 10 seconds.
func NewSMTPProber(heloDomain, mailFrom string, timeout time.Duration) *SMTPProber {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	return &SMTPProber{
		heloDomain: heloDomain,
		mailFrom:   mailFrom,
		timeout:    timeout,
	}
}

// SMTPProber probes over a plain SMTP session on port 25. Every probe dials
// its own connection and tears it down before returning, regardless of
// outcome.
type SMTPProber struct {
	heloDomain string
	mailFrom   string
	timeout    time.Duration

	// DialContext can be swapped out in tests. Defaults to a plain net.Dialer.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// Probe implements MailboxProber. The failure modes are enumerated rather
// than caught wholesale: a dial failure, a protocol error carrying a reply
// code, and a transport error mid-session each map onto the tri-state
// explicitly. Only a completed RCPT exchange yields a definitive verdict.
func (p *SMTPProber) Probe(ctx context.Context, mxHost string, address string) ProbeOutcome {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dial := p.DialContext
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}

	conn, err := dial(ctx, "tcp", net.JoinHostPort(mxHost, smtpPort))
	if err != nil {
		return ProbeOutcome{Mailbox: MailboxUndetermined, Err: err}
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		_ = conn.Close()
		return inconclusive(err)
	}

	defer func() {
		// Polite teardown first, abrupt close when the server won't have it.
		if err := client.Quit(); err != nil {
			_ = client.Close()
		}
	}()

	return p.converse(client, address)
}

// converse runs HELO, MAIL FROM and RCPT TO, and interprets the recipient
// reply.
func (p *SMTPProber) converse(client *smtp.Client, address string) ProbeOutcome {
	if err := client.Hello(p.heloDomain); err != nil {
		return inconclusive(err)
	}

	if err := client.Mail(p.mailFrom); err != nil {
		return inconclusive(err)
	}

	err := client.Rcpt(address)
	if err == nil {
		return ProbeOutcome{Mailbox: MailboxExists, Code: 250}
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		if protoErr.Code == 550 {
			return ProbeOutcome{Mailbox: MailboxAbsent, Code: protoErr.Code, Err: err}
		}

		return ProbeOutcome{Mailbox: MailboxUndetermined, Code: protoErr.Code, Err: err}
	}

	return inconclusive(err)
}

// inconclusive maps a transport-level failure (timeout, reset, unparsable
// reply) onto the undetermined state.
func inconclusive(err error) ProbeOutcome {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return ProbeOutcome{Mailbox: MailboxUndetermined, Code: protoErr.Code, Err: err}
	}

	return ProbeOutcome{Mailbox: MailboxUndetermined, Err: err}
}
