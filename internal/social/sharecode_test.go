package social

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewShareCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{3}-[A-HJ-NP-Z2-9]{3}-[A-HJ-NP-Z2-9]{3}$`)
	for i := 0; i < 50; i++ {
		code := NewShareCode()
		if !re.MatchString(code) {
			t.Fatalf("NewShareCode() = %q, want xxx-xxx-xxx from the restricted alphabet", code)
		}
	}
}

func TestNewManagementCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^MGR-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)
	for i := 0; i < 50; i++ {
		code := NewManagementCode()
		if !re.MatchString(code) {
			t.Fatalf("NewManagementCode() = %q, want MGR-xxxx-xxxx", code)
		}
	}
}

func TestShareCodesAvoidConfusables(t *testing.T) {
	for _, banned := range []string{"0", "O", "1", "I"} {
		if strings.Contains(shareCodeAlphabet, banned) {
			t.Errorf("alphabet contains confusable %q", banned)
		}
	}
}

func TestShareCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := NewShareCode()
		if seen[code] {
			t.Fatalf("duplicate share code %q after %d draws", code, len(seen))
		}
		seen[code] = true
	}
}
