package util

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw1" {
		t.Fatal("hash equals the plaintext")
	}
	if !CheckPassword("pw1", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("pw2", hash) {
		t.Error("wrong password accepted")
	}
}

func TestUnusablePasswordNeverVerifies(t *testing.T) {
	placeholder, err := UnusablePassword()
	if err != nil {
		t.Fatalf("UnusablePassword: %v", err)
	}

	for _, attempt := range []string{"", placeholder, "password"} {
		if CheckPassword(attempt, placeholder) {
			t.Errorf("placeholder verified against %q", attempt)
		}
	}

	other, err := UnusablePassword()
	if err != nil {
		t.Fatalf("UnusablePassword: %v", err)
	}
	if other == placeholder {
		t.Error("placeholders are not random")
	}
}
