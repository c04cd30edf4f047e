package ports

import (
	"math"
	"testing"
)

func TestNewPage(t *testing.T) {
	cases := []struct {
		name          string
		number, limit int
		want          Page
	}{
		{"defaults", 0, 0, Page{Number: 1, Limit: DefaultPageLimit}},
		{"negative", -3, -1, Page{Number: 1, Limit: DefaultPageLimit}},
		{"capped limit", 2, 500, Page{Number: 2, Limit: MaxPageLimit}},
		{"kept", 4, 25, Page{Number: 4, Limit: 25}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewPage(tc.number, tc.limit); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestPage_Skip(t *testing.T) {
	cases := []struct {
		name string
		page Page
		want int64
	}{
		{"first page", NewPage(1, 10), 0},
		{"third page", NewPage(3, 10), 20},
		{"unnormalized", Page{Number: 0, Limit: 10}, 0},
		{"zero limit", Page{Number: 5}, 0},
		{"huge page", NewPage(math.MaxInt, MaxPageLimit), math.MaxInt64},
		{"just below overflow", Page{Number: math.MaxInt64/MaxPageLimit + 1, Limit: MaxPageLimit}, (math.MaxInt64 / MaxPageLimit) * MaxPageLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.page.Skip()
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
			if got < 0 {
				t.Fatalf("skip must never be negative, got %d", got)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 10); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := TotalPages(21, 10); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := TotalPages(5, 0); got != 0 {
		t.Fatalf("expected 0 for a zero limit, got %d", got)
	}
}
