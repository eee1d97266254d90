// Package ecb implements the Electronic Codebook mode.
//
// Every block is transformed independently with the same key, so identical
// plaintext blocks always produce identical ciphertext blocks. That leaks
// the block structure of the input and is a property of the mode, not a
// defect of this package. There is no padding, inputs must already be whole
// blocks.
package ecb

import "crypto/cipher"

var (
	_ cipher.BlockMode = (*ECBEncrypter)(nil)
	_ cipher.BlockMode = (*ECBDecrypter)(nil)
)

// ECB Mode
type ecb struct {
	b         cipher.Block
	blockSize int
}

func newEcb(b cipher.Block) *ecb {
	return &ecb{b: b, blockSize: b.BlockSize()}
}

// ECB block mode for encryption.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return (*ECBEncrypter)(newEcb(b))
}

// ECB block mode for decryption.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return (*ECBDecrypter)(newEcb(b))
}

type ECBEncrypter ecb

func (ec *ECBEncrypter) BlockSize() int {
	return ec.blockSize
}

func (ec *ECBEncrypter) CryptBlocks(dst, src []byte) {
	if len(src)%ec.blockSize != 0 {
		panic("ecb: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("ecb: output smaller than input")
	}

	for len(src) > 0 {
		ec.b.Encrypt(dst[:ec.blockSize], src[:ec.blockSize])
		src = src[ec.blockSize:]
		dst = dst[ec.blockSize:]
	}
}

type ECBDecrypter ecb

func (ec *ECBDecrypter) BlockSize() int {
	return ec.blockSize
}

func (ec *ECBDecrypter) CryptBlocks(dst, src []byte) {
	if len(src)%ec.blockSize != 0 {
		panic("ecb: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("ecb: output smaller than input")
	}

	for len(src) > 0 {
		ec.b.Decrypt(dst[:ec.blockSize], src[:ec.blockSize])
		src = src[ec.blockSize:]
		dst = dst[ec.blockSize:]
	}
}
