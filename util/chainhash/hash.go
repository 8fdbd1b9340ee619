// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// HashSize is the size of the array used to store hashes.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that has too many characters.
var ErrHashStrSize = errors.Errorf("max hash string length is %d bytes", MaxHashStringSize)

// Hash is used in several of the messages and common structures. It typically
// represents the keccak-256 of data.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the hash.
func (hash Hash) String() string {
	return hex.EncodeToString(hash[:])
}

// Strings returns a slice of strings representing the hashes in the given
// slice of hashes
func Strings(hashes []*Hash) []string {
	strings := make([]string, len(hashes))
	for i, hash := range hashes {
		strings[i] = hash.String()
	}
	return strings
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
//
// NOTE: It is generally cheaper to just slice the hash directly thereby reusing
// the same bytes rather than calling this method.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])

	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return errors.Errorf("invalid hash length of %d, want %d", nhlen,
			HashSize)
	}
	copy(hash[:], newHash)

	return nil
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// Cmp compares hash and target and returns:
//
//	-1 if hash < target
//	 0 if hash == target
//	+1 if hash > target
func (hash *Hash) Cmp(target *Hash) int {
	return new(big.Int).SetBytes(hash[:]).Cmp(new(big.Int).SetBytes(target[:]))
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	err := sh.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &sh, err
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the hexadecimal string of a hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the hexadecimal encoding of a hash, directly into the
// destination.
func Decode(dst *Hash, src string) error {
	// Return an error if hash string is too long.
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	// Hex decoder expects the hash to be a multiple of two.
	if len(src)%2 != 0 {
		src = "0" + src
	}

	// Hex decode the source bytes.
	var srcBytes [HashSize]byte
	_, err := hex.Decode(srcBytes[HashSize-hex.DecodedLen(len(src)):], []byte(src))
	if err != nil {
		return errors.Wrap(err, "couldn't decode hash hex")
	}

	copy(dst[:], srcBytes[:])
	return nil
}

// HashH calculates the keccak-256 of the given bytes and returns it as a Hash.
func HashH(data []byte) Hash {
	var hash Hash
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	hasher.Sum(hash[:0])
	return hash
}
