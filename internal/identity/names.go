package identity

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// RandomUsername generates a default username of the form
// AdjectiveNoun123, e.g. "BraveOtter42".
func RandomUsername() string {
	adjective := capitalize(gofakeit.AdjectiveDescriptive())
	noun := capitalize(gofakeit.NounConcrete())
	return fmt.Sprintf("%s%s%d", adjective, noun, gofakeit.Number(1, 999))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AvatarURL derives a deterministic avatar image URL from a seed, usually
// the username. Same seed, same avatar.
func AvatarURL(base, seed string) string {
	return base + "?seed=" + url.QueryEscape(seed)
}
