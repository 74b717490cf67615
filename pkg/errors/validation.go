package errors

import (
	"regexp"
	"strings"
)

// identifierRegex matches names usable as WGSL identifiers and catalog keys.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier validates a variation name or library function id.
// Names end up spliced into generated shader source, so anything that is not
// a plain identifier is rejected.
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "%s name too long (max 128 characters)", kind)
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid %s name: %q", kind, name)
	}
	if strings.HasPrefix(name, "__") {
		return New(ErrCodeInvalidInput, "%s name cannot start with a double underscore: %q", kind, name)
	}
	return nil
}

// ValidateURL validates a backend connection URL against the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}
