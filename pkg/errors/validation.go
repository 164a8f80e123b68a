package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseNodeID parses a decimal node identifier.
// Surrounding whitespace is ignored. Negative numbers, signs, and values that
// overflow a uint are rejected with ErrCodeInvalidNode.
func ParseNodeID(s string) (uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidNode, "node ID cannot be empty")
	}
	if s[0] == '+' || s[0] == '-' {
		return 0, New(ErrCodeInvalidNode, "node ID must be a non-negative integer: %q", s)
	}
	v, err := strconv.ParseUint(s, 10, strconv.IntSize)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidNode, err, "node ID must be a non-negative integer: %q", s)
	}
	return uint(v), nil
}

// ValidatePath validates an input file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
