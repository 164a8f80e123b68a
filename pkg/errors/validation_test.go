package errors

import (
	"strings"
	"testing"
)

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"simple", "42", 42, false},
		{"whitespace", "  7\t", 7, false},
		{"leading zeros", "007", 7, false},

		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"negative", "-1", 0, true},
		{"plus sign", "+1", 0, true},
		{"letters", "abc", 0, true},
		{"float", "1.5", 0, true},
		{"overflow", "99999999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !Is(err, ErrCodeInvalidNode) {
					t.Errorf("ParseNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidNode)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseNodeID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/edges.txt", false},
		{"absolute", "/tmp/edges.txt", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
