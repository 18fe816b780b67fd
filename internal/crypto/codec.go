// Package crypto provides reversible field-level encryption for
// sensitive text columns using AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const nonceSize = 12
const tagSize = 16

// FieldPolicy maps "table.column" to whether that field is encrypted
// at rest. Fields absent from the policy are stored as plaintext.
type FieldPolicy map[string]bool

// DefaultPolicy lists the columns encrypted at rest.
var DefaultPolicy = FieldPolicy{
	"mood_records.note":        true,
	"couple_mood_records.note": true,
	"daily_tasks.title":        true,
}

// Codec encrypts and decrypts field values. The AEAD key is derived
// once from the configured secret via SHA-256.
type Codec struct {
	aead   cipher.AEAD
	policy FieldPolicy
}

// NewCodec derives an AES-256-GCM codec from the given secret.
// An empty secret is a configuration error.
func NewCodec(secret string, policy FieldPolicy) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is not set")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Codec{aead: aead, policy: policy}, nil
}

// Encrypt seals plaintext into a "nonce:tag:ciphertext" hex token with
// a fresh random nonce. Empty input passes through unchanged.
func (c *Codec) Encrypt(plaintext string) string {
	if plaintext == "" {
		return plaintext
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		// crypto/rand failure means the process is in no state to
		// persist secrets; storing plaintext is not an option either.
		panic(fmt.Sprintf("read nonce: %v", err))
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext)
}

// Decrypt opens a token produced by Encrypt. Anything that is not a
// well-formed, authentic token is returned unchanged: rows written
// before encryption was introduced hold plaintext, and those must keep
// round-tripping through read paths.
func (c *Codec) Decrypt(token string) string {
	if token == "" {
		return token
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return token
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return token
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return token
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return token
	}
	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return token
	}
	return string(plaintext)
}

// SealField encrypts value when the policy marks table.column as
// encrypted at rest, otherwise returns it unchanged.
func (c *Codec) SealField(table, column, value string) string {
	if !c.policy[table+"."+column] {
		return value
	}
	return c.Encrypt(value)
}

// OpenField is the read-path counterpart of SealField.
func (c *Codec) OpenField(table, column, value string) string {
	if !c.policy[table+"."+column] {
		return value
	}
	return c.Decrypt(value)
}
