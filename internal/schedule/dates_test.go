package schedule

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "short form gets current year",
			input: "15.02",
			want:  "15.02.2025",
			ok:    true,
		},
		{
			name:  "two-digit year",
			input: "15.02.25",
			want:  "15.02.2025",
			ok:    true,
		},
		{
			name:  "full year",
			input: "15.02.2025",
			want:  "15.02.2025",
			ok:    true,
		},
		{
			name:  "slash separator",
			input: "15/02",
			want:  "15.02.2025",
			ok:    true,
		},
		{
			name:  "single-digit day and month",
			input: "5.3",
			want:  "05.03.2025",
			ok:    true,
		},
		{
			name:  "invalid month",
			input: "31.13",
			ok:    false,
		},
		{
			name:  "day overflow",
			input: "32.01",
			ok:    false,
		},
		{
			name:  "not a leap year",
			input: "29.02.2025",
			ok:    false,
		},
		{
			name:  "leap year",
			input: "29.02.24",
			want:  "29.02.2024",
			ok:    true,
		},
		{
			name:  "free text",
			input: "завтра",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input, now)
			if ok != tt.ok {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSlot(t *testing.T) {
	loc := time.UTC

	slot, err := ParseSlot("15.02.2025", "10:00", loc)
	if err != nil {
		t.Fatalf("ParseSlot: %v", err)
	}
	want := time.Date(2025, 2, 15, 10, 0, 0, 0, loc)
	if !slot.Equal(want) {
		t.Fatalf("ParseSlot = %v, want %v", slot, want)
	}

	if _, err := ParseSlot("15.02.2025", "25:00", loc); err == nil {
		t.Fatal("ParseSlot accepted an impossible time")
	}
}
