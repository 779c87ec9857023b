// Package addr derives deterministic ledger account addresses from a domain
// tag and an ordered seed tuple. The same seeds always produce the same
// address, so record locations are computable from public inputs instead of
// stored pointers.
//
// Published seed scheme (wire-compatible, do not reorder):
//
//	counter:      ["project-counter"]
//	project:      ["project", creator(32), projectID as 8-byte little-endian]
//	vault:        ["vault", projectAddress(32)]
//	contribution: ["contribution", contributor(32), projectAddress(32), timestamp as 8-byte little-endian]
//
// Wallet accounts are addressed by the raw public key bytes.
package addr

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Domain tags for derived addresses.
const (
	TagCounter      = "project-counter"
	TagProject      = "project"
	TagVault        = "vault"
	TagContribution = "contribution"
)

// Size is the byte length of an address.
const Size = 32

// Address is a 32-byte account location.
type Address [Size]byte

var ErrInvalidAddress = errors.New("invalid address")

// Derive hashes the seed tuple into an address. Each seed is length-prefixed
// so that distinct tuples cannot produce the same preimage.
func Derive(seeds ...[]byte) Address {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails with a key; we pass none.
		panic(err)
	}
	var prefix [4]byte
	for _, seed := range seeds {
		binary.LittleEndian.PutUint32(prefix[:], uint32(len(seed)))
		h.Write(prefix[:])
		h.Write(seed)
	}
	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// Counter returns the single global counter address.
func Counter() Address {
	return Derive([]byte(TagCounter))
}

// Project returns the address for a creator's project with the given ID.
func Project(creator [32]byte, projectID uint64) Address {
	return Derive([]byte(TagProject), creator[:], Uint64LE(projectID))
}

// Vault returns the vault address owned by a project.
func Vault(project Address) Address {
	return Derive([]byte(TagVault), project[:])
}

// Contribution returns the address of one pledge, keyed by contributor,
// project and the caller-supplied timestamp.
func Contribution(contributor [32]byte, project Address, timestamp uint64) Address {
	return Derive([]byte(TagContribution), contributor[:], project[:], Uint64LE(timestamp))
}

// Wallet maps a public key to its system account address.
func Wallet(key [32]byte) Address {
	return Address(key)
}

// Uint64LE encodes v as the fixed-width 8-byte little-endian seed form.
func Uint64LE(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// Parse decodes the hex text form produced by String.
func Parse(s string) (Address, error) {
	var a Address
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != Size {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, Size, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// String returns the lowercase hex form of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	buf := make([]byte, Size)
	copy(buf, a[:])
	return buf
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
