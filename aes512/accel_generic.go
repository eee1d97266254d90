//go:build !amd64 || purego

package aes512

const hasAESNI = false

func encryptBlockAsm(xk *RoundKeys, dst, src *Block) {
	*dst = *src
	EncryptBlock(dst, xk)
}

func decryptBlockAsm(xk *RoundKeys, dst, src *Block) {
	*dst = *src
	DecryptBlock(dst, xk)
}
