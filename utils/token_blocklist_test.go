package utils

import (
	"context"
	"testing"
	"time"

	"pos-backend/config"
)

func newTestBlocklist(now time.Time) *MemoryBlocklist {
	b := NewMemoryBlocklist()
	b.now = func() time.Time { return now }
	return b
}

func TestMemoryBlocklistRevoke(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := newTestBlocklist(now)
	ctx := context.Background()

	if err := b.Revoke(ctx, "token-1", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	revoked, err := b.IsRevoked(ctx, "token-1")
	if err != nil || !revoked {
		t.Errorf("expected token-1 revoked, got %v (%v)", revoked, err)
	}
	revoked, _ = b.IsRevoked(ctx, "token-2")
	if revoked {
		t.Error("token-2 was never revoked")
	}
}

func TestMemoryBlocklistExpiredEntries(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := newTestBlocklist(now)
	ctx := context.Background()

	b.Revoke(ctx, "old", now.Add(-time.Minute))
	revoked, _ := b.IsRevoked(ctx, "old")
	if revoked {
		t.Error("an already expired token does not need blocking")
	}

	// The next revocation sweeps expired ids
	b.Revoke(ctx, "fresh", now.Add(time.Minute))
	if b.Len() != 1 {
		t.Errorf("expected 1 tracked id after cleanup, got %d", b.Len())
	}
}

func TestNewTokenBlocklistDisabledRedis(t *testing.T) {
	b, err := NewTokenBlocklist(config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*MemoryBlocklist); !ok {
		t.Errorf("expected in-memory blocklist, got %T", b)
	}
}
