package errors

import (
	"strings"
	"unicode"
)

// Violations collects human-readable constraint violations and turns them
// into a single INVALID_INPUT error.
//
// Each message should be a full sentence; they are joined with a single
// space in the order they were added:
//
//	var v errors.Violations
//	v.Check(text != "", "Text cannot be empty.")
//	v.Check(font != "", "Font cannot be empty.")
//	return v.Err()  // "Invalid input: Text cannot be empty. Font cannot be empty."
type Violations struct {
	messages []string
}

// Add records a violation.
func (v *Violations) Add(msg string) {
	v.messages = append(v.messages, msg)
}

// Check records msg when ok is false.
func (v *Violations) Check(ok bool, msg string) {
	if !ok {
		v.Add(msg)
	}
}

// Messages returns the recorded violations.
func (v *Violations) Messages() []string {
	return v.messages
}

// Err returns nil when nothing was recorded, otherwise an INVALID_INPUT
// error whose message concatenates every violation.
func (v *Violations) Err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return New(ErrCodeInvalidInput, "Invalid input: %s", strings.Join(v.messages, " "))
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme")
	}

	return nil
}

// ValidateFileName validates a download file name for safety.
// It ensures the name is a simple basename without path components.
func ValidateFileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid characters")
		}
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "file name cannot be a directory reference")
	}

	return nil
}

// SanitizeFileName rewrites name so that it passes [ValidateFileName].
// Path separators and control characters become underscores.
func SanitizeFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '\x00' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" || clean == "." || clean == ".." {
		return "_"
	}
	return clean
}
