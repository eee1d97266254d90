package aes512

import (
	"strings"

	"github.com/curtisnewbie/ecbaes/errs"
)

var (
	_ Transform = Portable{}
	_ Transform = Accelerated{}
)

// Block transform strategy.
//
// Implementations transform a single block in place and hold no state, so a
// Transform and a *RoundKeys may be shared by any number of goroutines as
// long as each one works on its own Block.
type Transform interface {
	Name() string
	Encrypt(b *Block, rk *RoundKeys)
	Decrypt(b *Block, rk *RoundKeys)
}

// Reference implementation in pure Go.
type Portable struct{}

func (Portable) Name() string { return string(EnginePortable) }

func (Portable) Encrypt(b *Block, rk *RoundKeys) { EncryptBlock(b, rk) }

func (Portable) Decrypt(b *Block, rk *RoundKeys) { DecryptBlock(b, rk) }

// AES-NI implementation.
//
// The hardware round instructions implement the same round function as
// Portable and consume the same RoundKeys; decryption applies AESIMC to each
// middle round key on the fly. Without hardware support it falls back to the
// portable code, see HasAccelerated.
type Accelerated struct{}

func (Accelerated) Name() string { return string(EngineAccelerated) }

func (Accelerated) Encrypt(b *Block, rk *RoundKeys) {
	if !hasAESNI {
		EncryptBlock(b, rk)
		return
	}
	encryptBlockAsm(rk, b, b)
}

func (Accelerated) Decrypt(b *Block, rk *RoundKeys) {
	if !hasAESNI {
		DecryptBlock(b, rk)
		return
	}
	decryptBlockAsm(rk, b, b)
}

// Whether Accelerated runs on hardware round instructions.
func HasAccelerated() bool {
	return hasAESNI
}

// Transform engine name.
type Engine string

const (
	// Accelerated when available, otherwise Portable.
	EngineAuto        Engine = "auto"
	EnginePortable    Engine = "portable"
	EngineAccelerated Engine = "accelerated"
)

// Parse engine name, case insensitive. Blank means EngineAuto.
func ParseEngine(s string) (Engine, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Engine(s) {
	case "", EngineAuto:
		return EngineAuto, nil
	case EnginePortable:
		return EnginePortable, nil
	case EngineAccelerated:
		return EngineAccelerated, nil
	}
	return "", errs.ErrInvalidEngine.WithInternalMsg("unknown engine '%v', expected one of: auto, portable, accelerated", s)
}

// Build the Transform for the engine.
//
// Explicitly asking for EngineAccelerated on a machine without AES-NI
// returns errs.ErrUnsupported rather than silently using the portable code.
func NewTransform(e Engine) (Transform, error) {
	switch e {
	case EngineAuto:
		if hasAESNI {
			return Accelerated{}, nil
		}
		return Portable{}, nil
	case EnginePortable:
		return Portable{}, nil
	case EngineAccelerated:
		if !hasAESNI {
			return nil, errs.ErrUnsupported.WithInternalMsg("AES instructions are not available on this CPU")
		}
		return Accelerated{}, nil
	}
	return nil, errs.ErrInvalidEngine.WithInternalMsg("unknown engine '%v'", e)
}

// Best Transform for this machine.
func DefaultTransform() Transform {
	t, _ := NewTransform(EngineAuto)
	return t
}
