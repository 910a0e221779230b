// Package id generates unique identifiers for non-database artifacts
// such as session tokens.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Session token length. Longer than the NanoID default since tokens are
// bearer credentials, not just identifiers.
const sessionTokenLength = 32

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "sess-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewSessionToken creates an opaque bearer token for a login session.
func NewSessionToken() (string, error) {
	token, err := gonanoid.New(sessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return "sess-" + token, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only when failure should crash the program, such as during
// initialization.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
