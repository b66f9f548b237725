// Package mailer dispatches rendered reports through the local sendmail
// binary. Mail is an external collaborator: this package builds the
// message, hands it to the MTA, and retries spool hiccups, nothing more.
// A delivery failure is the caller's to log; it never fails a pass.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/retry"
)

// sendmailPath is the conventional MTA entry point. Variable for tests.
var sendmailPath = "/usr/sbin/sendmail"

// Runner abstracts the sendmail invocation. The production runner pipes
// the message to the real binary; tests capture it.
type Runner interface {
	Send(ctx context.Context, recipient string, message []byte) error
}

// SendmailRunner pipes messages to the local sendmail binary.
type SendmailRunner struct{}

// Send implements Runner.
func (SendmailRunner) Send(ctx context.Context, recipient string, message []byte) error {
	cmd := exec.CommandContext(ctx, sendmailPath, "-t")
	cmd.Stdin = bytes.NewReader(message)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("mailer: sendmail to %s: %w (%s)", recipient, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Mailer formats and delivers monitoring reports.
type Mailer struct {
	runner Runner
	retry  retry.Config
}

// New returns a mailer. A nil runner defaults to the local sendmail.
func New(runner Runner) *Mailer {
	if runner == nil {
		runner = SendmailRunner{}
	}
	return &Mailer{runner: runner, retry: retry.DefaultConfig()}
}

// Send delivers an HTML report to the recipient. The message is a
// self-contained MIME document so the report renders inline.
func (m *Mailer) Send(ctx context.Context, recipient, subject string, htmlBody []byte) error {
	if recipient == "" {
		return fmt.Errorf("mailer: no recipient configured")
	}

	msg := buildMessage(recipient, subject, htmlBody)
	return retry.Do(ctx, m.retry, func() error {
		return m.runner.Send(ctx, recipient, msg)
	})
}

func buildMessage(recipient, subject string, htmlBody []byte) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.Write(htmlBody)
	return []byte(b.String())
}
