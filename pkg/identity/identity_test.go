package identity

import (
	"context"
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestActorFromToken_Roundtrip(t *testing.T) {
	token, err := SignToken(testSecret, "user-123", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	provider := NewHMACProvider(testSecret)
	actorID, err := provider.ActorFromToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actorID != "user-123" {
		t.Errorf("expected actor user-123, got %s", actorID)
	}
}

func TestActorFromToken_Invalid(t *testing.T) {
	provider := NewHMACProvider(testSecret)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignToken("some-other-secret", "user-123", time.Hour)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := provider.ActorFromToken(token); err == nil {
			t.Error("expected error for token signed with a different secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, err := SignToken(testSecret, "user-123", -time.Minute)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := provider.ActorFromToken(token); err == nil {
			t.Error("expected error for expired token")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := provider.ActorFromToken("not.a.token"); err == nil {
			t.Error("expected error for malformed token")
		}
	})

	t.Run("missing sub claim", func(t *testing.T) {
		token, err := SignToken(testSecret, "", time.Hour)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := provider.ActorFromToken(token); err == nil {
			t.Error("expected error for empty sub claim")
		}
	})
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()

	if got := ActorFromContext(ctx); got != "" {
		t.Errorf("expected empty actor on bare context, got %q", got)
	}

	ctx = WithActor(ctx, "user-123")
	if got := ActorFromContext(ctx); got != "user-123" {
		t.Errorf("expected user-123, got %q", got)
	}
}
