package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// languageNameRegex matches language binding names ("python", "javascript", "lua-5.1").
var languageNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_.-]*$`)

// ValidateLanguageName validates the name a language binding is registered under.
func ValidateLanguageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLanguage, "language name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidLanguage, "language name too long (max 64 characters)")
	}
	if !languageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidLanguage, "invalid language name: %q", name)
	}
	return nil
}

// blockTypeRegex matches block type tags ("text_print", "math_arithmetic").
var blockTypeRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateBlockType validates a block type tag from an untrusted workspace document.
func ValidateBlockType(typ string) error {
	if typ == "" {
		return New(ErrCodeInvalidWorkspace, "block type cannot be empty")
	}
	if len(typ) > 128 {
		return New(ErrCodeInvalidWorkspace, "block type too long (max 128 characters)")
	}
	if !blockTypeRegex.MatchString(typ) {
		return New(ErrCodeInvalidWorkspace, "invalid block type: %q", typ)
	}
	return nil
}

// ValidatePath validates an output path supplied on the command line or in
// a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
