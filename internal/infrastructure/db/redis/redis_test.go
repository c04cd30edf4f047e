package redis

import (
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		allowed   bool
		remaining int64
		retry     time.Duration
	}{
		{"first hit", 1, true, 4, 0},
		{"at limit", 5, true, 0, 0},
		{"over limit", 6, false, 0, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(tt.count, 5, 30*time.Second)
			if d.Allowed != tt.allowed || d.Remaining != tt.remaining || d.RetryAfter != tt.retry {
				t.Fatalf("unexpected decision: %+v", d)
			}
		})
	}
}

func TestRateLimiterKey_WindowAligned(t *testing.T) {
	r := &RateLimiter{window: time.Minute}
	start := time.Date(2024, 5, 1, 10, 0, 42, 0, time.UTC).Truncate(time.Minute)

	if got := r.key("1.2.3.4", start); got != "ratelimit:1.2.3.4:1714557600" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestLockKeyAndToken(t *testing.T) {
	if lockKey("sweep") != "lock:sweep" {
		t.Fatalf("unexpected key %q", lockKey("sweep"))
	}
	a, err := newToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := newToken()
	if len(a) != 32 || a == b {
		t.Fatalf("tokens should be random 16-byte hex: %q %q", a, b)
	}
}
