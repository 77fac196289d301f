// Package verify checks minisign signatures over downloaded update
// artifacts before they are handed to the user.
package verify

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedisct1/go-minisign"
)

// Update verifies payload against a minisign signature. sig is the raw
// content of the .minisig sidecar. key is either a base64 public key
// literal (the content of a minisign .pub file's key line) or a path to a
// .pub file.
func Update(payload, sig []byte, key string) error {
	pubKey, err := resolveKey(key)
	if err != nil {
		return err
	}

	signature, err := minisign.DecodeSignature(string(sig))
	if err != nil {
		return fmt.Errorf("decode minisign signature: %w", err)
	}

	valid, err := pubKey.Verify(payload, signature)
	if err != nil {
		return fmt.Errorf("minisign: verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("minisign: signature verification failed")
	}
	return nil
}

func resolveKey(key string) (minisign.PublicKey, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return minisign.PublicKey{}, fmt.Errorf("minisign public key not configured")
	}

	// A key literal is 56 base64 characters; anything that exists on disk is
	// treated as a .pub file.
	if _, err := os.Stat(trimmed); err == nil {
		pk, err := minisign.NewPublicKeyFromFile(trimmed)
		if err != nil {
			return minisign.PublicKey{}, fmt.Errorf("read minisign pubkey %s: %w", trimmed, err)
		}
		return pk, nil
	}

	pk, err := minisign.NewPublicKey(trimmed)
	if err != nil {
		return minisign.PublicKey{}, fmt.Errorf("parse minisign pubkey: %w", err)
	}
	return pk, nil
}
