package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeMailer struct {
	sendFn func(ctx context.Context, msg Message) error
	calls  int
}

func (f *fakeMailer) Send(ctx context.Context, msg Message) error {
	f.calls++
	return f.sendFn(ctx, msg)
}

func TestProtectedMailer_OpensAfterThreshold(t *testing.T) {
	boom := errors.New("relay down")
	inner := &fakeMailer{sendFn: func(context.Context, Message) error { return boom }}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewProtectedMailer(inner, ProtectedMailerConfig{FailureThreshold: 2, Cooldown: time.Minute})
	m.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := m.Send(ctx, Message{To: "a@b.io"}); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected inner error, got %v", i, err)
		}
	}

	if m.State() != "open" {
		t.Fatalf("expected open circuit, got %s", m.State())
	}
	if err := m.Send(ctx, Message{To: "a@b.io"}); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("open circuit must not call inner mailer, calls=%d", inner.calls)
	}
}

func TestProtectedMailer_HalfOpenRecovers(t *testing.T) {
	fail := true
	inner := &fakeMailer{sendFn: func(context.Context, Message) error {
		if fail {
			return errors.New("relay down")
		}
		return nil
	}}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewProtectedMailer(inner, ProtectedMailerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	m.now = func() time.Time { return now }

	ctx := context.Background()
	_ = m.Send(ctx, Message{})
	if m.State() != "open" {
		t.Fatalf("expected open, got %s", m.State())
	}

	now = now.Add(2 * time.Minute)
	fail = false

	if err := m.Send(ctx, Message{}); err != nil {
		t.Fatalf("half-open trial should pass through: %v", err)
	}
	if m.State() != "closed" {
		t.Fatalf("expected closed after successful trial, got %s", m.State())
	}
}

func TestProtectedMailer_AppliesTimeout(t *testing.T) {
	inner := &fakeMailer{sendFn: func(ctx context.Context, _ Message) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	m := NewProtectedMailer(inner, ProtectedMailerConfig{Timeout: 20 * time.Millisecond})

	err := m.Send(context.Background(), Message{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBuildMsg_Attachments(t *testing.T) {
	msg, err := buildMsg("reports@hradmin.local", Message{
		To:      "hr@example.com",
		Subject: "Salary Report",
		Body:    "<p>attached</p>",
		Attachments: []Attachment{{
			Filename:    "salary-report-2024-03.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.3"),
		}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got := msg.GetTo(); len(got) != 1 || got[0].Address != "hr@example.com" {
		t.Fatalf("unexpected recipients %v", got)
	}
	if len(msg.GetAttachments()) != 1 {
		t.Fatalf("expected one attachment")
	}
}

func TestBuildMsg_RejectsBadRecipient(t *testing.T) {
	if _, err := buildMsg("reports@hradmin.local", Message{To: "not an address"}); err == nil {
		t.Fatalf("expected error for invalid recipient")
	}
}
