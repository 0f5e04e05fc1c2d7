package errors

import (
	"testing"
)

func TestValidateLanguageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"python", "python", false},
		{"javascript", "javascript", false},
		{"with version", "lua-5.1", false},

		{"empty", "", true},
		{"uppercase", "Python", true},
		{"leading digit", "3python", true},
		{"space", "py thon", true},
		{"too long", string(make([]byte, 80)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLanguageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLanguageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLanguage) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidLanguage)
			}
		})
	}
}

func TestValidateBlockType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "text_print", false},
		{"camel", "mathArithmetic", false},
		{"leading underscore", "_internal", false},

		{"empty", "", true},
		{"dash", "text-print", true},
		{"space", "text print", true},
		{"dotted", "text.print", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlockType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlockType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"relative", "out/main.py", false},
		{"absolute", "/tmp/main.py", false},
		{"dotted name", "a..b.py", false},

		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"nested traversal", "out/../../x", true},
		{"null byte", "out\x00.py", true},
		{"newline", "out\n.py", true},
		{"too long", string(make([]byte, 600)), true},
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
