package auth

import (
	"fmt"
	"strings"
)

// DefaultSchemePrefixes is the recognized Authorization prefix table.
// Prefixes are tried in order and the first match wins; verification and
// revocation share the table so both always recover the identical token
// string.
var DefaultSchemePrefixes = []string{"Bearer ", "bearer "}

// StripSchemePrefix removes the first matching prefix from an
// Authorization header value and returns the remaining token string. It
// returns ErrUnauthorized when the header is empty, no prefix matches, or
// nothing follows the prefix.
func StripSchemePrefix(prefixes []string, header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing authorization header: %w", ErrUnauthorized)
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(header, prefix) {
			token := header[len(prefix):]
			if token == "" {
				return "", fmt.Errorf("empty token after scheme prefix: %w", ErrUnauthorized)
			}
			return token, nil
		}
	}
	return "", fmt.Errorf("unrecognized authorization scheme: %w", ErrUnauthorized)
}
