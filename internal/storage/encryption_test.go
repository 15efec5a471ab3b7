package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptData(t *testing.T) {
	plaintext := []byte("session report payload")
	config := DefaultEncryptionConfig("correct horse battery staple")

	encrypted, err := EncryptData(plaintext, config)
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	decrypted, err := DecryptData(encrypted, config)
	if err != nil {
		t.Fatalf("failed to decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round-trip = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptDataWrongPassword(t *testing.T) {
	encrypted, err := EncryptData([]byte("secret"), DefaultEncryptionConfig("right"))
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}

	if _, err := DecryptData(encrypted, DefaultEncryptionConfig("wrong")); err == nil {
		t.Error("expected decryption with the wrong password to fail")
	}
}

func TestDecryptDataTooShort(t *testing.T) {
	if _, err := DecryptData([]byte("tiny"), DefaultEncryptionConfig("pw")); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}

func TestEncryptDataRequiresPassword(t *testing.T) {
	if _, err := EncryptData([]byte("data"), nil); err == nil {
		t.Error("expected error without a config")
	}
	if _, err := EncryptData([]byte("data"), &EncryptionConfig{}); err == nil {
		t.Error("expected error without a password")
	}
}

func TestEncryptDecryptFile(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "backup.db")
	encryptedPath := filepath.Join(dir, "backup.db.enc")
	decryptedPath := filepath.Join(dir, "backup_restored.db")

	content := []byte("pretend this is a sqlite file")
	if err := os.WriteFile(sourcePath, content, 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	config := DefaultEncryptionConfig("backup password")

	if err := EncryptFile(sourcePath, encryptedPath, config); err != nil {
		t.Fatalf("failed to encrypt file: %v", err)
	}

	isEnc, err := IsEncrypted(encryptedPath)
	if err != nil {
		t.Fatalf("failed to probe encrypted file: %v", err)
	}
	if !isEnc {
		t.Error("expected encrypted file to carry the magic header")
	}

	if plain, err := IsEncrypted(sourcePath); err != nil {
		t.Fatalf("failed to probe source file: %v", err)
	} else if plain {
		t.Error("plain file reported as encrypted")
	}

	if err := DecryptFile(encryptedPath, decryptedPath, config); err != nil {
		t.Fatalf("failed to decrypt file: %v", err)
	}

	roundTrip, err := os.ReadFile(decryptedPath)
	if err != nil {
		t.Fatalf("failed to read decrypted file: %v", err)
	}
	if !bytes.Equal(roundTrip, content) {
		t.Errorf("decrypted content = %q, want %q", roundTrip, content)
	}
}

func TestDecryptFileRejectsPlainFile(t *testing.T) {
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "plain.db")
	if err := os.WriteFile(plainPath, []byte("not encrypted"), 0o644); err != nil {
		t.Fatalf("failed to write plain file: %v", err)
	}

	err := DecryptFile(plainPath, filepath.Join(dir, "out.db"), DefaultEncryptionConfig("pw"))
	if err == nil {
		t.Error("expected error decrypting a plain file")
	}
}
