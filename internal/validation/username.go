// Package validation holds input validation rules shared by services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxUsernameLen is the upper bound on username length.
const MaxUsernameLen = 64

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

// Reserved handles that would collide with routes or read as official.
var reservedUsernames = map[string]struct{}{
	"admin":     {},
	"anonymous": {},
	"api":       {},
	"echodrop":  {},
	"me":        {},
	"media":     {},
	"metrics":   {},
	"moderator": {},
	"posts":     {},
	"root":      {},
	"support":   {},
	"system":    {},
	"users":     {},
	"ws":        {},
}

// ValidateUsername checks username format and reserved names. The input
// should already be trimmed.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-%d characters and contain only letters, numbers, underscores, and hyphens", MaxUsernameLen)
	}

	if strings.HasPrefix(username, "-") || strings.HasSuffix(username, "-") {
		return fmt.Errorf("username cannot start or end with a hyphen")
	}

	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}

	return nil
}
