package users

import (
	"strings"
	"testing"
)

func TestGenerateRandomPassword(t *testing.T) {
	for _, length := range []int{1, 10, 64} {
		pw, err := GenerateRandomPassword(length)
		if err != nil {
			t.Fatalf("GenerateRandomPassword(%d) failed: %v", length, err)
		}
		if len(pw) != length {
			t.Errorf("Expected length %d, got %d", length, len(pw))
		}
		for _, r := range pw {
			if !strings.ContainsRune(passwordAlphabet, r) {
				t.Errorf("Unexpected character %q", r)
			}
		}
	}
}

func TestGenerateRandomPasswordDefaultLength(t *testing.T) {
	pw, err := GenerateRandomPassword(0)
	if err != nil {
		t.Fatalf("GenerateRandomPassword failed: %v", err)
	}
	if len(pw) != DefaultPasswordLength {
		t.Errorf("Expected default length %d, got %d", DefaultPasswordLength, len(pw))
	}
}

func TestGenerateRandomPasswordVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := GenerateRandomPassword(16)
		if err != nil {
			t.Fatalf("GenerateRandomPassword failed: %v", err)
		}
		seen[pw] = true
	}
	if len(seen) < 20 {
		t.Errorf("Expected 20 distinct passwords, got %d", len(seen))
	}
}
