package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if id1 == id2 {
		t.Error("expected different request IDs")
	}
	if !strings.HasPrefix(id1, "req_") {
		t.Errorf("expected prefix 'req_', got %s", id1)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  User@Example.COM  ", "user@example.com"},
		{"test@example.com", "test@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := NormalizeEmail(tt.input); result != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2026, time.March, 17, 15, 4, 5, 0, time.FixedZone("EST", -5*3600))
	got := StartOfMonth(in)
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfMonth() = %v, want %v", got, want)
	}
}

func TestAddMonths_CrossesYearBoundary(t *testing.T) {
	start := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		n    int
		want string
	}{
		{0, "2026-02"},
		{-1, "2026-01"},
		{-2, "2025-12"},
		{-13, "2025-01"},
		{11, "2027-01"},
	}

	for _, tt := range tests {
		if got := MonthKey(AddMonths(start, tt.n)); got != tt.want {
			t.Errorf("AddMonths(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{100 * time.Millisecond, "100ms"},
		{2 * time.Second, "2.00s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{2*time.Hour + 30*time.Minute, "2h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.duration.String(), func(t *testing.T) {
			if result := FormatDuration(tt.duration); result != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.duration, result, tt.expected)
			}
		})
	}
}
