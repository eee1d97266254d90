package aes512

// Encrypt b in place with the portable round function.
//
// Round 0 XORs rk[0], rounds 1..14 apply SubBytes, ShiftRows, MixColumns and
// XOR rk[r], the final round skips MixColumns.
func EncryptBlock(b *Block, rk *RoundKeys) {
	addRoundKey(b, &rk[0])
	for r := 1; r < Rounds-1; r++ {
		subBytes(b)
		shiftRows(b)
		mixColumns(b)
		addRoundKey(b, &rk[r])
	}
	subBytes(b)
	shiftRows(b)
	addRoundKey(b, &rk[Rounds-1])
}

// Decrypt b in place, the exact inverse of EncryptBlock.
func DecryptBlock(b *Block, rk *RoundKeys) {
	addRoundKey(b, &rk[Rounds-1])
	invShiftRows(b)
	invSubBytes(b)
	for r := Rounds - 2; r > 0; r-- {
		addRoundKey(b, &rk[r])
		invMixColumns(b)
		invShiftRows(b)
		invSubBytes(b)
	}
	addRoundKey(b, &rk[0])
}

func addRoundKey(b, k *Block) {
	for i := range b {
		b[i] ^= k[i]
	}
}

func subBytes(b *Block) {
	for i := range b {
		b[i] = sbox[b[i]]
	}
}

func invSubBytes(b *Block) {
	for i := range b {
		b[i] = invSbox[b[i]]
	}
}

// Row r is rotated left by r columns; byte i sits in row i%4, column i/4.
func shiftRows(b *Block) {
	b[1], b[5], b[9], b[13] = b[5], b[9], b[13], b[1]
	b[2], b[6], b[10], b[14] = b[10], b[14], b[2], b[6]
	b[3], b[7], b[11], b[15] = b[15], b[3], b[7], b[11]
}

func invShiftRows(b *Block) {
	b[1], b[5], b[9], b[13] = b[13], b[1], b[5], b[9]
	b[2], b[6], b[10], b[14] = b[10], b[14], b[2], b[6]
	b[3], b[7], b[11], b[15] = b[7], b[11], b[15], b[3]
}

func mixColumns(b *Block) {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := b[c], b[c+1], b[c+2], b[c+3]
		all := a0 ^ a1 ^ a2 ^ a3
		b[c] = a0 ^ all ^ xtime(a0^a1)
		b[c+1] = a1 ^ all ^ xtime(a1^a2)
		b[c+2] = a2 ^ all ^ xtime(a2^a3)
		b[c+3] = a3 ^ all ^ xtime(a3^a0)
	}
}

func invMixColumns(b *Block) {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := b[c], b[c+1], b[c+2], b[c+3]
		b[c] = gmul(a0, 14) ^ gmul(a1, 11) ^ gmul(a2, 13) ^ gmul(a3, 9)
		b[c+1] = gmul(a0, 9) ^ gmul(a1, 14) ^ gmul(a2, 11) ^ gmul(a3, 13)
		b[c+2] = gmul(a0, 13) ^ gmul(a1, 9) ^ gmul(a2, 14) ^ gmul(a3, 11)
		b[c+3] = gmul(a0, 11) ^ gmul(a1, 13) ^ gmul(a2, 9) ^ gmul(a3, 14)
	}
}
