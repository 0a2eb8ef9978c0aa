package auth

import (
	"encoding/base64"
	"testing"
)

func TestPKCE(t *testing.T) {
	t.Run("GenerateCodeVerifier", func(t *testing.T) {
		t.Run("Requested Length", func(t *testing.T) {
			for _, length := range []int{43, 64, 100, 128} {
				verifier, err := GenerateCodeVerifier(length)
				if err != nil {
					t.Fatalf("expected no error for length %d, got %v", length, err)
				}
				if len(verifier) != length {
					t.Errorf("expected length %d, got %d", length, len(verifier))
				}
			}
		})

		t.Run("Rejects Out Of Range", func(t *testing.T) {
			for _, length := range []int{0, 42, 129, -1} {
				if _, err := GenerateCodeVerifier(length); err == nil {
					t.Errorf("expected error for length %d", length)
				}
			}
		})

		t.Run("URL Safe Alphabet", func(t *testing.T) {
			verifier, err := GenerateCodeVerifier(128)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := base64.RawURLEncoding.DecodeString(verifier); err != nil {
				// Trimming can break base64 block alignment, but every
				// character must still be from the base64url alphabet.
				for _, c := range verifier {
					valid := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
						(c >= '0' && c <= '9') || c == '-' || c == '_'
					if !valid {
						t.Fatalf("verifier contains invalid character %q", c)
					}
				}
			}
		})
	})

	t.Run("CodeChallenge", func(t *testing.T) {
		t.Run("RFC 7636 Appendix B Vector", func(t *testing.T) {
			verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
			want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

			if got := CodeChallenge(verifier); got != want {
				t.Errorf("CodeChallenge() = %v, want %v", got, want)
			}
		})

		t.Run("Deterministic", func(t *testing.T) {
			verifier, err := GenerateCodeVerifier(64)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if CodeChallenge(verifier) != CodeChallenge(verifier) {
				t.Error("challenge should be a pure function of the verifier")
			}
		})
	})

	t.Run("NewSession", func(t *testing.T) {
		session, err := NewSession()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if session.Verifier == "" || session.State == "" {
			t.Fatal("session should have verifier and state")
		}

		if session.Verifier == session.State {
			t.Error("state must be independent of the verifier")
		}

		if session.Challenge() != CodeChallenge(session.Verifier) {
			t.Error("session challenge should match CodeChallenge")
		}
	})
}
