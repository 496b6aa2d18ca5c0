package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0:00"},
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 Hz"},
		{187.5, "188 Hz"},
		{12000, "12.00 kHz"},
	}
	for _, tt := range tests {
		if got := FormatFrequency(tt.in); got != tt.want {
			t.Fatalf("FormatFrequency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
