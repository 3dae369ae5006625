package errors

import (
	"strings"
	"unicode"
)

// ValidateDefinitionPath validates a report definition file path for safety.
// It prevents path traversal in server contexts and ensures reasonable length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateDefinitionPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "definition path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "definition path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "definition path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "definition path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateLayoutKind validates a layout kind string.
// The three recognized kinds are "grid", "table", and "stack".
func ValidateLayoutKind(kind string) error {
	switch kind {
	case "grid", "table", "stack":
		return nil
	}
	return New(ErrCodeUnknownElement, "unknown layout kind: %q (must be 'grid', 'table', or 'stack')", kind)
}

// ValidateFormatTag validates a field format tag.
// An empty tag is valid and means raw string conversion.
func ValidateFormatTag(tag string) error {
	switch tag {
	case "", "number", "currency", "percent", "date", "datetime":
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid format tag: %q", tag)
}
