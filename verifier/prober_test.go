package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// fakeMailServer speaks just enough SMTP for a probe conversation. Responses
// are looked up by command prefix; QUIT is always answered with a 221.
func fakeMailServer(conn net.Conn, banner string, responses map[string]string) {
	defer func() {
		_ = conn.Close()
	}()

	_, _ = fmt.Fprintf(conn, "%s\r\n", banner)

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}

		cmd := string(buf[:n])
		if strings.HasPrefix(cmd, "QUIT") {
			_, _ = fmt.Fprint(conn, "221 Bye\r\n")
			return
		}

		for prefix, resp := range responses {
			if strings.HasPrefix(cmd, prefix) {
				_, _ = fmt.Fprintf(conn, "%s\r\n", resp)
				break
			}
		}
	}
}

func pipeDialer(banner string, responses map[string]string) func(ctx context.Context, network, address string) (net.Conn, error) {
	return func(_ context.Context, _, _ string) (net.Conn, error) {
		client, server := net.Pipe()
		go fakeMailServer(server, banner, responses)
		return client, nil
	}
}

func newTestProber(dial func(ctx context.Context, network, address string) (net.Conn, error)) *SMTPProber {
	p := NewSMTPProber("example.com", "test@example.com", 2*time.Second)
	p.DialContext = dial
	return p
}

func TestSMTPProber_Probe(t *testing.T) {
	accepting := map[string]string{
		"EHLO":      "250 OK",
		"HELO":      "250 OK",
		"MAIL FROM": "250 OK",
	}

	tests := []struct {
		name        string
		rcptReply   string
		wantMailbox Mailbox
		wantCode    int
	}{
		{name: "accepted", rcptReply: "250 OK", wantMailbox: MailboxExists, wantCode: 250},
		{name: "no such user", rcptReply: "550 No such user here", wantMailbox: MailboxAbsent, wantCode: 550},
		{name: "greylisted", rcptReply: "451 Try again later", wantMailbox: MailboxUndetermined, wantCode: 451},
		{name: "relaying denied", rcptReply: "554 Relay access denied", wantMailbox: MailboxUndetermined, wantCode: 554},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string]string{"RCPT TO": tt.rcptReply}
			for k, v := range accepting {
				responses[k] = v
			}

			p := newTestProber(pipeDialer("220 mx.example.org ESMTP", responses))
			outcome := p.Probe(context.Background(), "mx.example.org", "john@example.org")

			if outcome.Mailbox != tt.wantMailbox {
				t.Errorf("Probe() mailbox = %s, want %s", outcome.Mailbox, tt.wantMailbox)
			}

			if outcome.Code != tt.wantCode {
				t.Errorf("Probe() code = %d, want %d", outcome.Code, tt.wantCode)
			}
		})
	}
}

func TestSMTPProber_ProbeDialFailure(t *testing.T) {
	dialErr := errors.New("connect: connection refused")
	p := newTestProber(func(_ context.Context, _, _ string) (net.Conn, error) {
		return nil, dialErr
	})

	outcome := p.Probe(context.Background(), "mx.example.org", "john@example.org")

	if outcome.Mailbox != MailboxUndetermined {
		t.Errorf("Probe() mailbox = %s, want %s", outcome.Mailbox, MailboxUndetermined)
	}

	if !errors.Is(outcome.Err, dialErr) {
		t.Errorf("Probe() err = %v, want %v", outcome.Err, dialErr)
	}

	if outcome.Code != 0 {
		t.Errorf("Expected no reply code without a conversation, got %d", outcome.Code)
	}
}

func TestSMTPProber_ProbeSessionDropped(t *testing.T) {
	// The server hangs up right after the banner; the probe must come back
	// undetermined, never definitive.
	p := newTestProber(func(_ context.Context, _, _ string) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			_, _ = fmt.Fprint(server, "220 mx.example.org ESMTP\r\n")
			_ = server.Close()
		}()
		return client, nil
	})

	outcome := p.Probe(context.Background(), "mx.example.org", "john@example.org")

	if outcome.Mailbox != MailboxUndetermined {
		t.Errorf("Probe() mailbox = %s, want %s", outcome.Mailbox, MailboxUndetermined)
	}

	if outcome.Err == nil {
		t.Error("Expected the underlying failure to be reported")
	}
}

func TestSMTPProber_ProbeUnfriendlyGreeting(t *testing.T) {
	p := newTestProber(pipeDialer("554 go away", nil))

	outcome := p.Probe(context.Background(), "mx.example.org", "john@example.org")

	if outcome.Mailbox != MailboxUndetermined {
		t.Errorf("Probe() mailbox = %s, want %s", outcome.Mailbox, MailboxUndetermined)
	}
}
