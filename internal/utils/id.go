package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns an opaque identifier of the form "<prefix>_<random>".
// The prefix is part of the contract: attendance infers the activity
// kind from it, so existing prefixes must not be renamed.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IDPrefix returns the type prefix of an opaque identifier, or ""
// when the id carries none.
func IDPrefix(id string) string {
	if i := strings.IndexByte(id, '_'); i > 0 {
		return id[:i]
	}
	return ""
}
