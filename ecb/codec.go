package ecb

import (
	"context"
	"runtime"
	"time"

	"github.com/curtisnewbie/ecbaes/aes512"
	"github.com/curtisnewbie/ecbaes/errs"
	"github.com/curtisnewbie/ecbaes/logger"
	"golang.org/x/sync/errgroup"
)

const (
	// Sequences shorter than this are not worth splitting.
	DefaultMinParallelBlocks = 1024
)

// Encrypt every block independently with the same round keys.
//
// The input is left untouched, the result is a fresh slice of the same
// length. Zero blocks yield an empty result.
func EncryptAll(t aes512.Transform, rk *aes512.RoundKeys, blocks []aes512.Block) []aes512.Block {
	out := make([]aes512.Block, len(blocks))
	copy(out, blocks)
	encryptShard(t, rk, out)
	return out
}

// Decrypt every block independently with the same round keys.
//
// The input is left untouched, the result is a fresh slice of the same
// length. Zero blocks yield an empty result.
func DecryptAll(t aes512.Transform, rk *aes512.RoundKeys, blocks []aes512.Block) []aes512.Block {
	out := make([]aes512.Block, len(blocks))
	copy(out, blocks)
	decryptShard(t, rk, out)
	return out
}

func encryptShard(t aes512.Transform, rk *aes512.RoundKeys, blocks []aes512.Block) {
	for i := range blocks {
		t.Encrypt(&blocks[i], rk)
	}
}

func decryptShard(t aes512.Transform, rk *aes512.RoundKeys, blocks []aes512.Block) {
	for i := range blocks {
		t.Decrypt(&blocks[i], rk)
	}
}

// Codec binds a Transform to expanded round keys.
//
// A Codec is read-only once created and may be used by multiple goroutines.
type Codec struct {
	t         aes512.Transform
	rk        aes512.RoundKeys
	workers   int
	minBlocks int
}

type CodecOption func(c *Codec)

// Max number of goroutines used by the parallel methods, <= 0 means GOMAXPROCS.
func WithWorkers(n int) CodecOption {
	return func(c *Codec) {
		c.workers = n
	}
}

// Sequences with fewer blocks are processed on the calling goroutine.
func WithMinParallelBlocks(n int) CodecOption {
	return func(c *Codec) {
		c.minBlocks = n
	}
}

// Create Codec, nil t means aes512.DefaultTransform.
func NewCodec(key aes512.Key, t aes512.Transform, opts ...CodecOption) *Codec {
	if t == nil {
		t = aes512.DefaultTransform()
	}
	c := &Codec{
		t:         t,
		rk:        aes512.ExpandKey(key),
		minBlocks: DefaultMinParallelBlocks,
	}
	for _, op := range opts {
		op(c)
	}
	return c
}

// Create Codec from raw key bytes.
//
// Returns errs.ErrInvalidKeySize if len(key) != aes512.KeySize.
func NewCodecBytes(key []byte, t aes512.Transform, opts ...CodecOption) (*Codec, error) {
	k, err := aes512.KeyFromBytes(key)
	if err != nil {
		return nil, err
	}
	return NewCodec(k, t, opts...), nil
}

func (c *Codec) Transform() aes512.Transform {
	return c.t
}

func (c *Codec) EncryptAll(blocks []aes512.Block) []aes512.Block {
	return EncryptAll(c.t, &c.rk, blocks)
}

func (c *Codec) DecryptAll(blocks []aes512.Block) []aes512.Block {
	return DecryptAll(c.t, &c.rk, blocks)
}

// Encrypt whole-block bytes, see aes512.SplitBlocks.
func (c *Codec) EncryptBytes(src []byte) ([]byte, error) {
	blocks, err := aes512.SplitBlocks(src)
	if err != nil {
		return nil, err
	}
	encryptShard(c.t, &c.rk, blocks)
	return aes512.JoinBlocks(blocks), nil
}

// Decrypt whole-block bytes, see aes512.SplitBlocks.
func (c *Codec) DecryptBytes(src []byte) ([]byte, error) {
	blocks, err := aes512.SplitBlocks(src)
	if err != nil {
		return nil, err
	}
	decryptShard(c.t, &c.rk, blocks)
	return aes512.JoinBlocks(blocks), nil
}

// Same as EncryptAll, but contiguous shards are encrypted concurrently.
//
// Output is identical to EncryptAll. Only cancellation of ctx is reported as
// an error, shards that have not started yet are skipped.
func (c *Codec) EncryptAllParallel(ctx context.Context, blocks []aes512.Block) ([]aes512.Block, error) {
	return c.parallel(ctx, blocks, encryptShard)
}

// Same as DecryptAll, but contiguous shards are decrypted concurrently.
//
// Output is identical to DecryptAll. Only cancellation of ctx is reported as
// an error, shards that have not started yet are skipped.
func (c *Codec) DecryptAllParallel(ctx context.Context, blocks []aes512.Block) ([]aes512.Block, error) {
	return c.parallel(ctx, blocks, decryptShard)
}

type shardFunc func(t aes512.Transform, rk *aes512.RoundKeys, blocks []aes512.Block)

func (c *Codec) parallel(ctx context.Context, blocks []aes512.Block, f shardFunc) ([]aes512.Block, error) {
	out := make([]aes512.Block, len(blocks))
	copy(out, blocks)

	workers := c.workerCount()
	if workers < 2 || len(out) < c.minBlocks || len(out) < workers {
		if err := ctx.Err(); err != nil {
			return nil, errs.WrapErrf(err, "ecb cancelled")
		}
		f(c.t, &c.rk, out)
		return out, nil
	}

	start := time.Now()
	shard := (len(out) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(out); lo += shard {
		hi := min(lo+shard, len(out))
		part := out[lo:hi]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f(c.t, &c.rk, part)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.WrapErrf(err, "ecb cancelled")
	}

	if logger.IsDebugLevel() {
		logger.Debugf("Processed %d blocks with %d workers (shard: %d, engine: %v), took: %v",
			len(out), workers, shard, c.t.Name(), time.Since(start))
	}
	return out, nil
}

func (c *Codec) workerCount() int {
	if c.workers > 0 {
		return c.workers
	}
	return runtime.GOMAXPROCS(0)
}
