// Package aes512 implements a non-standard AES variant with a 128-bit block,
// a 512-bit key and 16 round keys.
//
// The round function is the FIPS-197 one (SubBytes, ShiftRows, MixColumns,
// AddRoundKey), so a block is laid out column-major exactly like AES: byte i
// is row i%4 of column i/4. Only the key schedule and the round count differ
// from AES, see [ExpandKey].
//
// Two [Transform] strategies are provided: [Portable], the reference
// implementation, and [Accelerated], which runs the same rounds on AES-NI
// when the CPU supports it. Both produce identical output for any key and
// block.
//
// The portable path uses table based S-box lookups and is not hardened
// against cache-timing side channels.
package aes512

import (
	"encoding/hex"

	"github.com/curtisnewbie/ecbaes/errs"
)

const (
	// Block size in bytes.
	BlockSize = 16

	// Master key size in bytes.
	KeySize = 64

	// Number of round keys; round 0 is the initial whitening.
	Rounds = 16

	// Number of 128-bit chunks in a master key.
	keyChunks = KeySize / BlockSize
)

// A 128-bit block, the unit of transformation.
type Block [BlockSize]byte

// A 512-bit master key.
type Key [KeySize]byte

// Round keys derived from a Key, index i is used by round i.
//
// RoundKeys is never mutated after derivation and is safe to share across
// goroutines.
type RoundKeys [Rounds]Block

func (b Block) String() string {
	return hex.EncodeToString(b[:])
}

// Copy src into a Block.
//
// Returns errs.ErrInvalidBlockSize if len(src) != BlockSize.
func BlockFromBytes(src []byte) (Block, error) {
	var b Block
	if len(src) != BlockSize {
		return b, errs.ErrInvalidBlockSize.WithInternalMsg("block must be %d bytes, got %d", BlockSize, len(src))
	}
	copy(b[:], src)
	return b, nil
}

// Copy src into a Key.
//
// Returns errs.ErrInvalidKeySize if len(src) != KeySize.
func KeyFromBytes(src []byte) (Key, error) {
	var k Key
	if len(src) != KeySize {
		return k, errs.ErrInvalidKeySize.WithInternalMsg("key must be %d bytes, got %d", KeySize, len(src))
	}
	copy(k[:], src)
	return k, nil
}

// Split whole-block bytes into Blocks.
//
// Returns errs.ErrInvalidBlockSize if len(src) is not a multiple of BlockSize.
func SplitBlocks(src []byte) ([]Block, error) {
	if len(src)%BlockSize != 0 {
		return nil, errs.ErrInvalidBlockSize.WithInternalMsg("input must be whole %d-byte blocks, got %d bytes", BlockSize, len(src))
	}
	blocks := make([]Block, len(src)/BlockSize)
	for i := range blocks {
		copy(blocks[i][:], src[i*BlockSize:])
	}
	return blocks, nil
}

// Concatenate Blocks into a byte slice.
func JoinBlocks(blocks []Block) []byte {
	out := make([]byte, 0, len(blocks)*BlockSize)
	for i := range blocks {
		out = append(out, blocks[i][:]...)
	}
	return out
}
