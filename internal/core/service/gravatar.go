package service

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// gravatarURL derives the deterministic avatar URL for an email address:
// 200px, PG-rated, with the "mystery man" fallback for unknown emails.
// The hash input is the trimmed, lowercased address per the Gravatar spec.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
