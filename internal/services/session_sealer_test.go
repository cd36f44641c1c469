package services

import (
	"errors"
	"testing"
)

func TestNewSessionSealer_GeneratesKey(t *testing.T) {
	s, err := NewSessionSealer("")
	if err != nil {
		t.Fatalf("NewSessionSealer failed: %v", err)
	}
	if len(s.encryptionKey) != SessionKeySize {
		t.Errorf("expected %d-byte key, got %d bytes", SessionKeySize, len(s.encryptionKey))
	}
}

func TestNewSessionSealer_UsesConfiguredKey(t *testing.T) {
	testKey := "12345678901234567890123456789012"

	s, err := NewSessionSealer(testKey)
	if err != nil {
		t.Fatalf("NewSessionSealer failed: %v", err)
	}
	if string(s.encryptionKey) != testKey {
		t.Errorf("expected key %q, got %q", testKey, string(s.encryptionKey))
	}
}

func TestNewSessionSealer_RejectsShortKey(t *testing.T) {
	if _, err := NewSessionSealer("tooshort"); err == nil {
		t.Error("expected error for short key")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	s, _ := NewSessionSealer("")

	sealed, err := s.Seal("b5a1d3e0-session")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if sealed == "" || sealed == "b5a1d3e0-session" {
		t.Fatalf("unexpected sealed value %q", sealed)
	}

	id, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if id != "b5a1d3e0-session" {
		t.Errorf("got %q, want %q", id, "b5a1d3e0-session")
	}
}

func TestOpen_InvalidBase64(t *testing.T) {
	s, _ := NewSessionSealer("")

	if _, err := s.Open("not-valid-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestOpen_ShortCiphertext(t *testing.T) {
	s, _ := NewSessionSealer("")

	// Valid base64 but shorter than a nonce
	if _, err := s.Open("dGVzdA=="); err == nil {
		t.Error("expected error for invalid ciphertext")
	}
}

func TestOpen_WrongKey(t *testing.T) {
	s1, _ := NewSessionSealer("")
	s2, _ := NewSessionSealer("")

	sealed, err := s1.Seal("session-id")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := s2.Open(sealed); err == nil {
		t.Error("expected error when opening with wrong key")
	}
}

func TestSeal_ProducesDifferentOutput(t *testing.T) {
	s, _ := NewSessionSealer("")

	a, _ := s.Seal("session-id")
	b, _ := s.Seal("session-id")

	// Random nonce per seal
	if a == b {
		t.Error("expected different sealed outputs")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestNewSessionSealer_RandomSourceFailure(t *testing.T) {
	orig := randReader
	randReader = failingReader{}
	defer func() { randReader = orig }()

	s, err := NewSessionSealer("")
	if err == nil {
		t.Fatal("expected error when the random source fails")
	}
	if s != nil {
		t.Errorf("expected nil sealer, got %v", s)
	}
}
