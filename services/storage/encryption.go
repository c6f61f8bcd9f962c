// File: services/storage/encryption.go
package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// encryptFile encrypts the file at localFilePath using AES-256 GCM with the
// given encryptionKey. It writes the encrypted data to a temporary file and
// returns the temporary file's path. The nonce is prepended to the
// ciphertext so it is available for decryption.
func encryptFile(localFilePath, encryptionKey string) (string, error) {
	plaintext, err := os.ReadFile(localFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Derive a 32-byte key from the encryptionKey using SHA-256.
	keyHash := sha256.Sum256([]byte(encryptionKey))
	key := keyHash[:] // 32 bytes for AES-256

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)

	tempFilePath := filepath.Join(os.TempDir(), fmt.Sprintf("enc-%d", time.Now().UnixNano()))
	if err := os.WriteFile(tempFilePath, ciphertext, 0600); err != nil {
		return "", fmt.Errorf("failed to write encrypted file: %w", err)
	}

	return tempFilePath, nil
}

// decryptData reverses encryptFile for in-memory ciphertext (nonce-prefixed).
func decryptData(ciphertext []byte, encryptionKey string) ([]byte, error) {
	keyHash := sha256.Sum256([]byte(encryptionKey))

	block, err := aes.NewCipher(keyHash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
