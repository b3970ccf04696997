package services

import (
	"context"
	"strings"
	"testing"

	"research-repository-api/models"
)

func TestMailNotifierEscapesContent(t *testing.T) {
	var gotTo []string
	var gotSubject, gotBody string
	notifier := NewMailNotifier(func(to []string, subject, body string) error {
		gotTo, gotSubject, gotBody = to, subject, body
		return nil
	})

	comment := "<b>revise</b> section 2"
	sub := &models.Submission{Title: "Graphs & <Trees>", Status: models.StatusRejected, FacultyComment: &comment}
	owner := &models.User{FullName: "Ada", Email: "ada@example.org"}

	if err := notifier.NotifyDecision(context.Background(), owner, sub); err != nil {
		t.Fatalf("NotifyDecision returned error: %v", err)
	}
	if len(gotTo) != 1 || gotTo[0] != "ada@example.org" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	if !strings.Contains(gotSubject, "rejected") {
		t.Fatalf("expected status in subject, got %q", gotSubject)
	}
	if strings.Contains(gotBody, "<Trees>") || !strings.Contains(gotBody, "&lt;b&gt;revise&lt;/b&gt;") {
		t.Fatalf("expected escaped body, got %q", gotBody)
	}
}

func TestMailNotifierSkipsOwnersWithoutEmail(t *testing.T) {
	called := false
	notifier := NewMailNotifier(func([]string, string, string) error {
		called = true
		return nil
	})
	if err := notifier.NotifyDecision(context.Background(), &models.User{}, &models.Submission{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("expected no mail for owner without email")
	}
}
