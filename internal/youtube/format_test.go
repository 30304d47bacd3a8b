package youtube

import (
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{9, "0:09"},
		{59, "0:59"},
		{60, "1:00"},
		{225, "3:45"},
		{3600, "1:00:00"},
		{5025, "1:23:45"},
		{36061, "10:01:01"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.expected {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{-1, "0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5242880, "5.0 MB"},
		{1073741824, "1.0 GB"},
		{1649267441664, "1536.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.expected {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestFormatFileSizeOrderPreserving(t *testing.T) {
	// Larger byte counts never report a smaller unit.
	units := map[string]int{"B": 0, "KB": 1, "MB": 2, "GB": 3}
	prev := 0
	for _, n := range []int64{1, 1023, 1024, 1 << 20, 1 << 30, 1 << 40} {
		s := FormatFileSize(n)
		fields := strings.Fields(s)
		if len(fields) != 2 {
			t.Fatalf("unparseable size %q", s)
		}
		if units[fields[1]] < prev {
			t.Errorf("unit went backwards at %d bytes: %q", n, s)
		}
		prev = units[fields[1]]
	}
}
