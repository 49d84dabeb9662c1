package auth

import (
	"encoding/hex"
	"testing"
)

func TestRandomTokenIsHexAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := randomToken()
		if err != nil {
			t.Fatalf("randomToken: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("token length = %d, want 64 hex chars", len(token))
		}
		if _, err := hex.DecodeString(token); err != nil {
			t.Fatalf("token %q is not hex: %v", token, err)
		}
		if seen[token] {
			t.Fatalf("token %q repeated", token)
		}
		seen[token] = true
	}
}

func TestResetIssueResponseCarriesToken(t *testing.T) {
	resp := resetIssueResponse("abc123")
	if got, ok := resp["resetToken"].(string); !ok || got != "abc123" {
		t.Errorf("resetToken = %v, want abc123", resp["resetToken"])
	}

	// Unknown accounts get no payload so the response body alone does
	// not confirm the email exists.
	if resp := resetIssueResponse(""); resp != nil {
		t.Errorf("empty token payload = %v, want nil", resp)
	}
}
