// Package pathvalidator implements §4.10: an allow-list sandbox applied
// only at the boundary where a Key is interpreted as filesystem
// indirection. Most keys are opaque strings indices never validate as
// paths; Validate is a pure function callers opt into explicitly, per
// §9's "path-ness is a property of a key's use, not the key."
package pathvalidator

import (
	"net/url"
	"strings"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// Validator enforces an allow-list of path prefixes. It holds no mutable
// state after construction, so a single Validator can be shared across
// goroutines without locking.
type Validator struct {
	allowedPrefixes []string
}

// New builds a Validator over the given allow-listed prefixes. Prefixes
// are compared after normalizing to use "/" separators and dropping
// leading and trailing slashes, since a valid key is never absolute
// ("/workspace" admits "workspace/..."); an empty list means no key
// passes validation (fail closed).
func New(allowedPrefixes []string) *Validator {
	normalized := make([]string, len(allowedPrefixes))
	for i, p := range allowedPrefixes {
		normalized[i] = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
	}
	return &Validator{allowedPrefixes: normalized}
}

// Validate rejects a key intended as filesystem indirection if it:
//
//   - exceeds types.MaxKeyBytes,
//   - is empty,
//   - contains a null byte,
//   - is an absolute path (leading "/"),
//   - contains a ".." path component, including after one round of URL
//     percent-decoding,
//   - does not lie under any allow-listed prefix.
//
// Validate never normalizes the key; it only accepts or rejects.
func Validate(key types.Key, allowedPrefixes []string) error {
	return New(allowedPrefixes).Validate(key)
}

// Validate is the method form of the package-level function, reusing a
// pre-built allow-list.
func (v *Validator) Validate(key types.Key) error {
	raw := string(key)

	if raw == "" {
		return errors.ErrInvalidKey.WithDetail("reason", "empty key")
	}
	if len(raw) > types.MaxKeyBytes {
		return errors.ErrInvalidKey.WithDetail("reason", "key exceeds maximum length")
	}
	if strings.ContainsRune(raw, 0) {
		return errors.ErrInvalidKey.WithDetail("reason", "key contains null byte")
	}

	if err := checkTraversal(raw); err != nil {
		return err
	}

	// A single round of percent-decoding catches encoded traversal
	// (e.g. "%2e%2e/etc") without attempting iterative normalization,
	// which could itself be exploited (§9: "never silently normalize").
	if decoded, decErr := url.QueryUnescape(raw); decErr == nil && decoded != raw {
		if err := checkTraversal(decoded); err != nil {
			return err
		}
	}

	if !v.hasAllowedPrefix(raw) {
		return errors.ErrInvalidKey.WithDetail("reason", "key outside allow-listed prefixes")
	}

	return nil
}

func checkTraversal(s string) error {
	if strings.HasPrefix(s, "/") {
		return errors.ErrInvalidKey.WithDetail("reason", "absolute path not allowed")
	}
	for _, part := range strings.Split(s, "/") {
		if part == ".." {
			return errors.ErrInvalidKey.WithDetail("reason", "path traversal component")
		}
	}
	return nil
}

func (v *Validator) hasAllowedPrefix(key string) bool {
	for _, prefix := range v.allowedPrefixes {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			return true
		}
	}
	return false
}
