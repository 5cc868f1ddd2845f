package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-01-10T14:30:00Z", time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)},
		{"2024-01-10T20:00:00+05:30", time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)},
		{"2024-01-10T14:30:00", time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)},
		{" 2024-01-10 ", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "10/01/2024", "2024-13-01"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) expected error", in)
		}
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate(nil)
	if err != nil || got != nil {
		t.Fatalf("nil input: got %v, %v", got, err)
	}
	blank := "  "
	got, err = ParseOptionalDate(&blank)
	if err != nil || got != nil {
		t.Fatalf("blank input: got %v, %v", got, err)
	}
	s := "2024-02-01"
	got, err = ParseOptionalDate(&s)
	if err != nil || got == nil || got.Day() != 1 {
		t.Fatalf("date input: got %v, %v", got, err)
	}
}
