package guest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New()

	token, ownerKey, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !strings.HasPrefix(ownerKey, "guest:") {
		t.Fatalf("unexpected owner key %q", ownerKey)
	}

	got, err := svc.LookupByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("LookupByToken: %v", err)
	}
	if got != ownerKey {
		t.Fatalf("owner key mismatch: got %q want %q", got, ownerKey)
	}
}

func TestLookupUnknownToken(t *testing.T) {
	svc := New()
	if _, err := svc.LookupByToken(context.Background(), "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := New()
	svc.ttl = -time.Minute

	token, _, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.LookupByToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokensAreDistinct(t *testing.T) {
	svc := New()
	t1, o1, _ := svc.Issue(context.Background())
	t2, o2, _ := svc.Issue(context.Background())
	if t1 == t2 {
		t.Fatal("tokens must be unique")
	}
	if o1 == o2 {
		t.Fatal("owner keys must be unique")
	}
}
