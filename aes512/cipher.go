package aes512

import (
	"crypto/cipher"
)

var _ cipher.Block = (*Cipher)(nil)

// A master key expanded once, bound to a Transform.
//
// Cipher implements crypto/cipher.Block.
type Cipher struct {
	rk RoundKeys
	t  Transform
}

// Create a cipher.Block using DefaultTransform.
//
// The key must be exactly KeySize bytes.
func NewCipher(key []byte) (cipher.Block, error) {
	return NewCipherWith(key, DefaultTransform())
}

// Create a Cipher using the given Transform, nil means DefaultTransform.
func NewCipherWith(key []byte, t Transform) (*Cipher, error) {
	rk, err := ExpandKeyBytes(key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = DefaultTransform()
	}
	return &Cipher{rk: rk, t: t}, nil
}

func (c *Cipher) BlockSize() int { return BlockSize }

func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes512: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes512: output not full block")
	}
	b := Block(src[:BlockSize])
	c.t.Encrypt(&b, &c.rk)
	copy(dst, b[:])
}

func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes512: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes512: output not full block")
	}
	b := Block(src[:BlockSize])
	c.t.Decrypt(&b, &c.rk)
	copy(dst, b[:])
}

// Round keys in use, callers must not modify them.
func (c *Cipher) RoundKeys() *RoundKeys {
	return &c.rk
}

// Transform in use.
func (c *Cipher) Transform() Transform {
	return c.t
}
