package ecb

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/curtisnewbie/ecbaes/aes512"
	"github.com/curtisnewbie/ecbaes/errs"
	"github.com/curtisnewbie/ecbaes/logger"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func seqKey() aes512.Key {
	var k aes512.Key
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func TestEncryptAllIdenticalBlocks(t *testing.T) {
	rk := aes512.ExpandKey(seqKey())
	var a, b aes512.Block
	copy(a[:], "we are banana!!!")
	copy(b[:], "we are apple!!!!")

	in := []aes512.Block{a, b, a}
	out := EncryptAll(aes512.Portable{}, &rk, in)
	require.Len(t, out, 3)
	require.Equal(t, out[0], out[2], "identical plaintext blocks must give identical ciphertext")
	require.NotEqual(t, out[0], out[1])
	require.Equal(t, a, in[0], "input must be left untouched")

	// every block equals its single block encryption
	for i := range in {
		single := in[i]
		aes512.EncryptBlock(&single, &rk)
		require.Equal(t, single, out[i])
	}

	require.Equal(t, in, DecryptAll(aes512.Portable{}, &rk, out))
}

func TestEncryptAllEmpty(t *testing.T) {
	rk := aes512.ExpandKey(aes512.Key{})
	require.Empty(t, EncryptAll(aes512.Portable{}, &rk, nil))
	require.Empty(t, DecryptAll(aes512.Portable{}, &rk, []aes512.Block{}))
}

func TestBlockModeRoundTrip(t *testing.T) {
	k := seqKey()
	c, err := aes512.NewCipher(k[:])
	require.NoError(t, err)

	src := bytes.Repeat([]byte("0123456789abcdef"), 4)
	enc := make([]byte, len(src))
	NewECBEncrypter(c).CryptBlocks(enc, src)
	require.Equal(t, enc[:16], enc[16:32])
	require.Equal(t, aes512.BlockSize, NewECBEncrypter(c).BlockSize())

	dec := make([]byte, len(enc))
	NewECBDecrypter(c).CryptBlocks(dec, enc)
	require.Equal(t, src, dec)

	// in place
	NewECBEncrypter(c).CryptBlocks(src, src)
	require.Equal(t, enc, src)
}

func TestBlockModeMatchesCodec(t *testing.T) {
	k := seqKey()
	c, err := aes512.NewCipherWith(k[:], aes512.Portable{})
	require.NoError(t, err)
	codec := NewCodec(k, aes512.Portable{})

	src := make([]byte, 5*aes512.BlockSize)
	for i := range src {
		src[i] = byte(i * 7)
	}
	want := make([]byte, len(src))
	NewECBEncrypter(c).CryptBlocks(want, src)

	got, err := codec.EncryptBytes(src)
	require.NoError(t, err)
	require.Equal(t, want, got)

	dec, err := codec.DecryptBytes(got)
	require.NoError(t, err)
	require.Equal(t, src, dec)

	_, err = codec.EncryptBytes(make([]byte, 20))
	require.True(t, errors.Is(err, errs.ErrInvalidBlockSize), "%v", err)
}

func TestBlockModePanics(t *testing.T) {
	k := seqKey()
	c, err := aes512.NewCipher(k[:])
	require.NoError(t, err)

	require.Panics(t, func() { NewECBEncrypter(c).CryptBlocks(make([]byte, 32), make([]byte, 17)) })
	require.Panics(t, func() { NewECBEncrypter(c).CryptBlocks(make([]byte, 16), make([]byte, 32)) })
	require.Panics(t, func() { NewECBDecrypter(c).CryptBlocks(make([]byte, 16), make([]byte, 15)) })
	require.NotPanics(t, func() { NewECBDecrypter(c).CryptBlocks(nil, nil) })
}

func TestNewCodecBytes(t *testing.T) {
	_, err := NewCodecBytes(make([]byte, 16), nil)
	require.True(t, errors.Is(err, errs.ErrInvalidKeySize), "%v", err)

	k := seqKey()
	c, err := NewCodecBytes(k[:], nil)
	require.NoError(t, err)
	require.Equal(t, aes512.DefaultTransform(), c.Transform())
}

func TestParallelEqualsSequential(t *testing.T) {
	logger.SetLogLevel("debug")
	defer logger.SetLogLevel("info")

	rapid.Check(t, func(t *rapid.T) {
		key := aes512.Key(rapid.SliceOfN(rapid.Byte(), aes512.KeySize, aes512.KeySize).Draw(t, "key"))
		n := rapid.IntRange(0, 200).Draw(t, "blocks")
		workers := rapid.IntRange(1, 8).Draw(t, "workers")
		raw := rapid.SliceOfN(rapid.Byte(), n*aes512.BlockSize, n*aes512.BlockSize).Draw(t, "data")

		blocks, err := aes512.SplitBlocks(raw)
		require.NoError(t, err)

		c := NewCodec(key, aes512.Portable{}, WithWorkers(workers), WithMinParallelBlocks(1))
		seq := c.EncryptAll(blocks)
		par, err := c.EncryptAllParallel(context.Background(), blocks)
		require.NoError(t, err)
		require.Equal(t, len(seq), len(par))
		for i := range seq {
			require.Equal(t, seq[i], par[i])
		}

		dec, err := c.DecryptAllParallel(context.Background(), par)
		require.NoError(t, err)
		for i := range blocks {
			require.Equal(t, blocks[i], dec[i])
		}
	})
}

func TestParallelCancelled(t *testing.T) {
	c := NewCodec(seqKey(), nil, WithWorkers(4), WithMinParallelBlocks(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.EncryptAllParallel(ctx, make([]aes512.Block, 64))
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled), "%v", err)

	// below the parallel threshold
	c = NewCodec(seqKey(), nil, WithWorkers(1))
	_, err = c.DecryptAllParallel(ctx, make([]aes512.Block, 2))
	require.True(t, errors.Is(err, context.Canceled), "%v", err)
}

func BenchmarkEncryptAll(b *testing.B) {
	c := NewCodec(seqKey(), nil)
	blocks := make([]aes512.Block, 4096)
	b.SetBytes(int64(len(blocks) * aes512.BlockSize))
	for i := 0; i < b.N; i++ {
		_ = c.EncryptAll(blocks)
	}
}

func BenchmarkEncryptAllParallel(b *testing.B) {
	c := NewCodec(seqKey(), nil)
	blocks := make([]aes512.Block, 4096)
	b.SetBytes(int64(len(blocks) * aes512.BlockSize))
	for i := 0; i < b.N; i++ {
		_, _ = c.EncryptAllParallel(context.Background(), blocks)
	}
}
