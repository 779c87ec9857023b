// Package identity represents ledger callers as ed25519 public keys and
// verifies per-operation signatures. The ledger never holds private keys;
// wallets sign a canonical operation message and submit the signature with
// the request.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the byte length of a public key.
const Size = ed25519.PublicKeySize

// PublicKey identifies one caller.
type PublicKey [Size]byte

var (
	ErrInvalidKey       = errors.New("invalid public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Generate creates a fresh keypair.
func Generate() (PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PublicKey{}, nil, fmt.Errorf("generate key: %w", err)
	}
	var k PublicKey
	copy(k[:], pub)
	return k, priv, nil
}

// FromPrivate extracts the public half of a private key.
func FromPrivate(priv ed25519.PrivateKey) PublicKey {
	var k PublicKey
	copy(k[:], priv.Public().(ed25519.PublicKey))
	return k
}

// Parse decodes the hex text form produced by String.
func Parse(s string) (PublicKey, error) {
	var k PublicKey
	raw, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != Size {
		return k, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, Size, len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// String returns the lowercase hex form of the key.
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns a copy of the raw key bytes.
func (k PublicKey) Bytes() []byte {
	buf := make([]byte, Size)
	copy(buf, k[:])
	return buf
}

// IsZero reports whether the key is unset.
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// OperationMessage builds the canonical byte encoding a wallet signs for one
// ledger operation: a protocol prefix, the operation name and each field,
// all length-prefixed. Field order matches the operation's documented
// parameter order.
func OperationMessage(op string, fields ...[]byte) []byte {
	msg := make([]byte, 0, 64)
	msg = appendChunk(msg, []byte("crowdvault/v1"))
	msg = appendChunk(msg, []byte(op))
	for _, f := range fields {
		msg = appendChunk(msg, f)
	}
	return msg
}

func appendChunk(dst, chunk []byte) []byte {
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(chunk)))
	dst = append(dst, prefix[:]...)
	return append(dst, chunk...)
}

// Sign signs a canonical operation message.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Verify checks a signature over a canonical operation message.
func Verify(key PublicKey, message, signature []byte) error {
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignature, ed25519.SignatureSize, len(signature))
	}
	if !ed25519.Verify(ed25519.PublicKey(key[:]), message, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
