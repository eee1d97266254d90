package aes512

import (
	"crypto/aes"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Run the round pipeline over an arbitrary number of round keys, so the
// primitives can be checked against crypto/aes with an AES-128 schedule.
func encryptRounds(b *Block, keys []Block) {
	addRoundKey(b, &keys[0])
	for r := 1; r < len(keys)-1; r++ {
		subBytes(b)
		shiftRows(b)
		mixColumns(b)
		addRoundKey(b, &keys[r])
	}
	subBytes(b)
	shiftRows(b)
	addRoundKey(b, &keys[len(keys)-1])
}

func decryptRounds(b *Block, keys []Block) {
	n := len(keys)
	addRoundKey(b, &keys[n-1])
	invShiftRows(b)
	invSubBytes(b)
	for r := n - 2; r > 0; r-- {
		addRoundKey(b, &keys[r])
		invMixColumns(b)
		invShiftRows(b)
		invSubBytes(b)
	}
	addRoundKey(b, &keys[0])
}

func aes128Schedule(key Block) []Block {
	keys := []Block{key}
	for i := 0; i < 10; i++ {
		keys = append(keys, keyMix(keys[i], rcon[i]))
	}
	return keys
}

func TestRoundPrimitivesMatchStdlibAES(t *testing.T) {
	// FIPS-197 C.1
	key := mustBlock(t, "000102030405060708090a0b0c0d0e0f")
	pt := mustBlock(t, "00112233445566778899aabbccddeeff")

	b := pt
	encryptRounds(&b, aes128Schedule(key))
	require.Equal(t, "69c4e0d86a7b0430d8cdb78070b4c55a", b.String())

	decryptRounds(&b, aes128Schedule(key))
	require.Equal(t, pt, b)

	rapid.Check(t, func(t *rapid.T) {
		k := Block(rapid.SliceOfN(rapid.Byte(), BlockSize, BlockSize).Draw(t, "key"))
		p := Block(rapid.SliceOfN(rapid.Byte(), BlockSize, BlockSize).Draw(t, "plain"))

		std, err := aes.NewCipher(k[:])
		require.NoError(t, err)
		var want Block
		std.Encrypt(want[:], p[:])

		got := p
		encryptRounds(&got, aes128Schedule(k))
		require.Equal(t, want, got)

		decryptRounds(&got, aes128Schedule(k))
		require.Equal(t, p, got)
	})
}

func TestEncryptVectors(t *testing.T) {
	ff := Key{}
	for i := range ff {
		ff[i] = 0xff
	}

	tests := []struct {
		name  string
		key   Key
		plain string
		ciph  string
	}{
		{"all zero", Key{}, "00000000000000000000000000000000", "33dc7d3a0c6ac406e208ed79dad290f4"},
		{"sequential key", seqKey(), "00112233445566778899aabbccddeeff", "2cdb9bc0c8cde378c66f5cb485e2a679"},
		{"all ones", ff, "ffffffffffffffffffffffffffffffff", "06081b57cdd96dad3991c3b3116421ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rk := ExpandKey(tt.key)
			b := mustBlock(t, tt.plain)
			EncryptBlock(&b, &rk)
			require.Equal(t, tt.ciph, b.String())

			DecryptBlock(&b, &rk)
			require.Equal(t, tt.plain, b.String())
		})
	}
}

func TestZeroVectorReproducible(t *testing.T) {
	var first Block
	for i := 0; i < 3; i++ {
		rk := ExpandKey(Key{})
		var b Block
		EncryptBlock(&b, &rk)
		if i == 0 {
			first = b
			continue
		}
		if b != first {
			t.Fatalf("all zero ciphertext changed between runs, %v != %v", b, first)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := Key(rapid.SliceOfN(rapid.Byte(), KeySize, KeySize).Draw(t, "key"))
		plain := Block(rapid.SliceOfN(rapid.Byte(), BlockSize, BlockSize).Draw(t, "plain"))
		rk := ExpandKey(key)

		b := plain
		EncryptBlock(&b, &rk)
		DecryptBlock(&b, &rk)
		require.Equal(t, plain, b)
	})
}

func TestRoundTripRepresentativeBlocks(t *testing.T) {
	var ones Block
	var alt Block
	for i := range ones {
		ones[i] = 0xff
		alt[i] = 0xaa
	}
	var oneBit Block
	oneBit[15] = 1

	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 32; n++ {
		var key Key
		rng.Read(key[:])
		rk := ExpandKey(key)
		for _, plain := range []Block{{}, ones, alt, oneBit} {
			b := plain
			EncryptBlock(&b, &rk)
			if b == plain {
				t.Fatalf("ciphertext equals plaintext, key: %x, block: %v", key, plain)
			}
			DecryptBlock(&b, &rk)
			if b != plain {
				t.Fatalf("round trip failed, key: %x, block: %v, got: %v", key, plain, b)
			}
		}
	}
}

func TestAvalanche(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	total := 0
	trials := 256
	for n := 0; n < trials; n++ {
		var key Key
		var plain Block
		rng.Read(key[:])
		rng.Read(plain[:])
		rk := ExpandKey(key)

		flipped := plain
		bit := rng.Intn(BlockSize * 8)
		flipped[bit/8] ^= 1 << (bit % 8)

		EncryptBlock(&plain, &rk)
		EncryptBlock(&flipped, &rk)

		diff := 0
		for i := range plain {
			diff += bits.OnesCount8(plain[i] ^ flipped[i])
		}
		if diff < 24 {
			t.Fatalf("single bit flip changed only %d ciphertext bits", diff)
		}
		total += diff
	}

	avg := float64(total) / float64(trials)
	t.Logf("average bits changed: %.2f", avg)
	if avg < 56 || avg > 72 {
		t.Fatalf("average bits changed out of range: %.2f", avg)
	}
}

func TestInvPrimitives(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := Block(rapid.SliceOfN(rapid.Byte(), BlockSize, BlockSize).Draw(t, "block"))
		c := b

		shiftRows(&c)
		invShiftRows(&c)
		require.Equal(t, b, c)

		mixColumns(&c)
		invMixColumns(&c)
		require.Equal(t, b, c)

		subBytes(&c)
		invSubBytes(&c)
		require.Equal(t, b, c)
	})
}

func BenchmarkEncryptBlock(b *testing.B) {
	rk := ExpandKey(seqKey())
	var blk Block
	b.SetBytes(BlockSize)
	for i := 0; i < b.N; i++ {
		EncryptBlock(&blk, &rk)
	}
}

func BenchmarkExpandKey(b *testing.B) {
	k := seqKey()
	for i := 0; i < b.N; i++ {
		_ = ExpandKey(k)
	}
}
