package vehicle

import "testing"

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase with spaces",
			input: "аа 1234 вс",
			want:  "АА1234ВС",
		},
		{
			name:  "dashes stripped",
			input: "AA-1234-BC",
			want:  "AA1234BC",
		},
		{
			name:  "long dash stripped",
			input: "АА—1234—ВС",
			want:  "АА1234ВС",
		},
		{
			name:  "already clean",
			input: "АА1234ВС",
			want:  "АА1234ВС",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePlate(tt.input); got != tt.want {
				t.Fatalf("NormalizePlate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidPlateFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{
			name:  "cyrillic",
			input: "АА1234ВС",
			valid: true,
		},
		{
			name:  "latin",
			input: "AA1234BC",
			valid: true,
		},
		{
			name:  "extended cyrillic letters",
			input: "ІК5678ЇЄ",
			valid: true,
		},
		{
			name:  "normalized on the way in",
			input: "аа 1234-вс",
			valid: true,
		},
		{
			name:  "missing trailing letters",
			input: "AA1234",
			valid: false,
		},
		{
			name:  "too many digits",
			input: "AA12345BC",
			valid: false,
		},
		{
			name:  "digits and letters swapped",
			input: "1234AABC",
			valid: false,
		},
		{
			name:  "empty",
			input: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPlateFormat(tt.input); got != tt.valid {
				t.Fatalf("ValidPlateFormat(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}
