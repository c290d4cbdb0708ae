package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

func Slugify(s string) string {
	// Convert to lowercase
	s = strings.ToLower(s)
	// Replace non-alphanumeric characters with hyphens
	reg := regexp.MustCompile("[^a-z0-9]+")
	s = reg.ReplaceAllString(s, "-")
	// Trim hyphens from start and end
	s = strings.Trim(s, "-")
	return s
}

// PortalSlug builds a shareable slug from the portal name plus a random
// suffix. The suffix is the whole access-control boundary for the public
// share path, so it comes from crypto/rand rather than an ObjectID.
func PortalSlug(name string) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	base := Slugify(name)
	if base == "" {
		base = "portal"
	}
	return base + "-" + hex.EncodeToString(buf)
}
