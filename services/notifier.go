package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"research-repository-api/models"
)

// MailFunc sends an HTML message.
type MailFunc func(to []string, subject, body string) error

// MailNotifier e-mails owners when a reviewer closes their submission.
type MailNotifier struct {
	send MailFunc
}

var _ Notifier = (*MailNotifier)(nil)

func NewMailNotifier(send MailFunc) *MailNotifier {
	return &MailNotifier{send: send}
}

func (n *MailNotifier) NotifyDecision(ctx context.Context, owner *models.User, sub *models.Submission) error {
	if n.send == nil || owner == nil || strings.TrimSpace(owner.Email) == "" {
		return nil
	}

	subject := fmt.Sprintf("Your submission \"%s\" was %s", sub.Title, sub.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(owner.FullName))
	fmt.Fprintf(&b, "<p>Your submission <strong>%s</strong> has been <strong>%s</strong>.</p>",
		html.EscapeString(sub.Title), html.EscapeString(string(sub.Status)))
	if sub.FacultyComment != nil && *sub.FacultyComment != "" {
		fmt.Fprintf(&b, "<p>Reviewer comment:</p><blockquote>%s</blockquote>", html.EscapeString(*sub.FacultyComment))
	}

	return n.send([]string{owner.Email}, subject, b.String())
}
