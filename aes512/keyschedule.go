package aes512

// Derive the 16 round keys from a master key.
//
// The key holds four 128-bit chunks C0..C3. For rounds 0 to 14 the chunk
// C[i mod 4] is XORed with the previous round key (zero for round 0) and
// passed through one AES-128 key expansion step with round constant rcon[i].
// The last round key is C3 as is.
//
// ExpandKey is a pure function of the key bytes.
func ExpandKey(key Key) RoundKeys {
	var rk RoundKeys
	var prev Block
	for i := 0; i < Rounds-1; i++ {
		var seed Block
		chunk := key[(i%keyChunks)*BlockSize:]
		for j := range seed {
			seed[j] = chunk[j] ^ prev[j]
		}
		rk[i] = keyMix(seed, rcon[i])
		prev = rk[i]
	}
	copy(rk[Rounds-1][:], key[(keyChunks-1)*BlockSize:])
	return rk
}

// Same as ExpandKey, but takes a byte slice.
//
// Returns errs.ErrInvalidKeySize unless len(key) == KeySize.
func ExpandKeyBytes(key []byte) (RoundKeys, error) {
	k, err := KeyFromBytes(key)
	if err != nil {
		return RoundKeys{}, err
	}
	return ExpandKey(k), nil
}

// One AES-128 key expansion step over the four big-endian words of b.
func keyMix(b Block, rc byte) Block {
	// t = SubWord(RotWord(w3)) ^ rc<<24
	t0 := sbox[b[13]] ^ rc
	t1 := sbox[b[14]]
	t2 := sbox[b[15]]
	t3 := sbox[b[12]]

	for w := 0; w < 4; w++ {
		o := w * 4
		b[o] ^= t0
		b[o+1] ^= t1
		b[o+2] ^= t2
		b[o+3] ^= t3
		t0, t1, t2, t3 = b[o], b[o+1], b[o+2], b[o+3]
	}
	return b
}
