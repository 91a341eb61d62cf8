// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package provenance

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/agrama-db/agrama/pkg/errors"
)

func encodeHash(sum []byte) string {
	return base64.RawURLEncoding.EncodeToString(sum)
}

// Signer signs and verifies provenance entry hashes with a process-local
// Ed25519 keypair. It is an integrity check, not an identity system: the
// keypair authenticates that entries came from this log instance, not
// which agent performed the primitive call (that's AgentID, already
// carried on the record itself).
type Signer struct {
	priv  ed25519.PrivateKey
	pub   ed25519.PublicKey
	keyID string
}

// NewSigner wraps an existing Ed25519 keypair.
func NewSigner(priv ed25519.PrivateKey, pub ed25519.PublicKey, keyID string) *Signer {
	return &Signer{priv: priv, pub: pub, keyID: keyID}
}

// GenerateSigner creates a fresh random Ed25519 keypair, keyed by keyID.
func GenerateSigner(keyID string) (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.New(errors.CategoryInternal, "KEY_GENERATION_FAILED", "failed to generate signing keypair").
			WithDetail("error", err.Error())
	}
	return NewSigner(priv, pub, keyID), nil
}

// KeyID returns the identifier the verifier should use to look up PublicKey.
func (s *Signer) KeyID() string { return s.keyID }

// PublicKey returns the verification key, for distribution to callers
// who need to check a log's chain independently.
func (s *Signer) PublicKey() ed25519.PublicKey { return s.pub }

// Sign signs a base64-encoded hash string, returning a base64-encoded signature.
func (s *Signer) Sign(hash string) (string, error) {
	if s.priv == nil {
		return "", errors.New(errors.CategoryInternal, "SIGNER_NOT_CONFIGURED", "signer has no private key")
	}
	sig := ed25519.Sign(s.priv, []byte(hash))
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks a signature produced by Sign against this signer's
// public key.
func (s *Signer) Verify(hash, signature string) error {
	if s.pub == nil {
		return errors.New(errors.CategoryInternal, "SIGNER_NOT_CONFIGURED", "signer has no public key")
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return errors.New(errors.CategoryConsistency, "SIGNATURE_DECODE_FAILED", fmt.Sprintf("signature is not valid base64: %v", err))
	}
	if !ed25519.Verify(s.pub, []byte(hash), sigBytes) {
		return errors.New(errors.CategoryConsistency, "SIGNATURE_INVALID", "signature does not verify against the configured public key")
	}
	return nil
}
