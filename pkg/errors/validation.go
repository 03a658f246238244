package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxIdentifierLength bounds identifier size; longer labels cannot be laid
// out on any practical circle.
const MaxIdentifierLength = 256

// ValidateIdentifier validates an identifier destined for a radial diagram.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters (they break label width estimates and XML)
//   - Maximum length of 256 bytes
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}

	if len(id) > MaxIdentifierLength {
		return New(ErrCodeInvalidID, "identifier too long (max %d characters)", MaxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "identifier %q contains control characters", id)
		}
	}

	return nil
}

// ValidatePath validates an input or output file path supplied on the
// command line or through the HTTP API.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) after cleaning relative paths
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

	if !filepath.IsAbs(path) {
		clean := filepath.ToSlash(filepath.Clean(path))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
