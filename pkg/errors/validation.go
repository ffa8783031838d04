package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// templateNameRegex matches relation template names such as "markdown" or "sql-postgres".
var templateNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateTemplateName validates a relation template name before it is
// joined into a lookup path. Names are bare identifiers: no separators,
// no traversal, no control characters, at most 128 characters.
func ValidateTemplateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "template name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidTemplate, "template name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTemplate, "template name contains invalid control characters")
		}
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidTemplate, "template name cannot contain path traversal sequences (..)")
	}
	if !templateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTemplate, "invalid template name: %q", name)
	}
	return nil
}

// ValidateOutputBase validates the base path used to name generated files.
//
// Validation rules:
//   - Base cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not end with a path separator (it names files, not a directory)
func ValidateOutputBase(base string) error {
	if base == "" {
		return New(ErrCodeInvalidPath, "output base cannot be empty")
	}

	const maxPathLength = 500
	if len(base) > maxPathLength {
		return New(ErrCodeInvalidPath, "output base too long (max %d characters)", maxPathLength)
	}

	for _, r := range base {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output base contains invalid characters")
		}
	}

	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, "\\") {
		return New(ErrCodeInvalidPath, "output base must name a file, not a directory")
	}

	return nil
}
