//go:build amd64 && !purego

package aes512

import "golang.org/x/sys/cpu"

var hasAESNI = cpu.X86.HasAES

// defined in accel_amd64.s

//go:noescape
func encryptBlockAsm(xk *RoundKeys, dst, src *Block)

//go:noescape
func decryptBlockAsm(xk *RoundKeys, dst, src *Block)
