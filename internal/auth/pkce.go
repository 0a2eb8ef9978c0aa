package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/desertthunder/walkon/internal/shared"
)

const (
	// VerifierMinLength and VerifierMaxLength bound the PKCE code verifier
	// length as mandated by RFC 7636.
	VerifierMinLength = 43
	VerifierMaxLength = 128

	// DefaultVerifierLength is used when no explicit length is requested.
	// Spotify accepts the full 43-128 range; 64 gives plenty of entropy.
	DefaultVerifierLength = 64
)

// Session is the ephemeral PKCE session created before redirecting to the
// authorize endpoint and consumed exactly once by the matching callback.
type Session struct {
	Verifier string
	State    string
}

// NewSession generates a fresh code verifier and anti-CSRF state token.
func NewSession() (*Session, error) {
	verifier, err := GenerateCodeVerifier(DefaultVerifierLength)
	if err != nil {
		return nil, err
	}

	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	return &Session{Verifier: verifier, State: state}, nil
}

// Challenge returns the S256 code challenge for the session's verifier.
func (s *Session) Challenge() string {
	return CodeChallenge(s.Verifier)
}

// GenerateCodeVerifier produces a cryptographically random base64url string
// of exactly the requested length. Lengths outside [43,128] are rejected.
func GenerateCodeVerifier(length int) (string, error) {
	if length < VerifierMinLength || length > VerifierMaxLength {
		return "", fmt.Errorf("%w: verifier length %d outside [%d,%d]",
			shared.ErrInvalidArgument, length, VerifierMinLength, VerifierMaxLength)
	}

	// base64 expands 3 bytes to 4 characters, so draw a little extra and
	// trim to the exact requested length.
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(buf)
	return encoded[:length], nil
}

// CodeChallenge derives the S256 challenge from a verifier:
// base64url(sha256(verifier)), no padding. Deterministic.
func CodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateState produces a verifier-strength random state token,
// independent of the code verifier.
func GenerateState() (string, error) {
	return GenerateCodeVerifier(DefaultVerifierLength)
}
