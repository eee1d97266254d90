package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/curtisnewbie/ecbaes/aes512"
	"github.com/curtisnewbie/ecbaes/config"
	"github.com/curtisnewbie/ecbaes/ecb"
	"github.com/curtisnewbie/ecbaes/errs"
	"github.com/curtisnewbie/ecbaes/logger"
	"github.com/curtisnewbie/ecbaes/util/flags"
	"github.com/curtisnewbie/ecbaes/util/json"
	"github.com/curtisnewbie/ecbaes/version"
	"go.uber.org/automaxprocs/maxprocs"
)

const (
	keyRowSize = 16
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Errorf("%v", errs.ErrorStackTrace(err))
		os.Exit(1)
	}
}

type Report struct {
	Version     string
	Engine      string
	Accelerated bool
	Key         []string
	Plaintext   []string
	Ciphertext  []string
	Decrypted   []string
}

func run(args []string, stdout io.Writer) error {
	fs := flags.NewSet("ecbaes", stdout)
	fs.WithDescription("ecbaes - encrypt or decrypt whole 128-bit blocks with a 512-bit key in ECB mode")
	fs.WithExtra(strings.Join([]string{
		"Config props can be appended after the flags using KEY=VALUE, e.g.,",
		"",
		"  ecbaes -data 00112233445566778899aabbccddeeff cipher.engine=portable logging.level=debug",
		"",
		"Without -key, a random key is generated. Without -data, a single zero block is used.",
	}, "\n"))
	keyFlag := fs.HexBytes("key", aes512.KeySize, "hex encoded 64 bytes key", false)
	dataFlag := fs.HexBytes("data", -aes512.BlockSize, "hex encoded data, whole 16 bytes blocks", false)
	engineFlag := fs.String("engine", "", "block transform engine: auto, portable or accelerated, overrides cipher.engine", false)
	decrypt := fs.Bool("decrypt", false, "treat data as ciphertext", false)
	asJson := fs.Bool("json", false, "print report in json", false)
	if err := fs.Parse(args); err != nil {
		return err
	}

	conf := config.NewAppConfig()
	conf.DefaultReadConfig(fs.Args())

	if lv := conf.GetPropStr(config.PropLoggingLevel); !logger.SetLogLevel(lv) {
		logger.Warnf("Unknown log level '%v', ignored", lv)
	}
	if f := conf.GetPropStr(config.PropLoggingRollingFile); f != "" {
		closer := logger.UseRollingLogFile(logger.NewRollingLogFileParam{
			Filename:   f,
			MaxSize:    conf.GetPropInt(config.PropLoggingRollingFileMaxSize),
			MaxAge:     conf.GetPropInt(config.PropLoggingRollingFileMaxAge),
			MaxBackups: conf.GetPropInt(config.PropLoggingRollingFileMaxBackups),
		})
		defer func() {
			logger.SetOutput(os.Stderr)
			closer.Close()
		}()
	}

	undo, err := maxprocs.Set(maxprocs.Logger(logger.Debugf))
	if err != nil {
		logger.Warnf("Failed to set GOMAXPROCS, %v", err)
	}
	defer undo()

	engineName := conf.GetPropStr(config.PropCipherEngine)
	if fs.IsSet("engine") {
		engineName = *engineFlag
	}
	engine, err := aes512.ParseEngine(engineName)
	if err != nil {
		return err
	}
	t, err := aes512.NewTransform(engine)
	if err != nil {
		return err
	}

	var key aes512.Key
	if keyFlag.IsSet() {
		key, err = aes512.KeyFromBytes(keyFlag.Bytes)
	} else {
		key, err = randomKey(rand.Reader)
		logger.Infof("Generated random key")
	}
	if err != nil {
		return err
	}

	data := make([]byte, aes512.BlockSize)
	if dataFlag.IsSet() {
		data = dataFlag.Bytes
	}
	blocks, err := aes512.SplitBlocks(data)
	if err != nil {
		return err
	}

	codec := ecb.NewCodec(key, t,
		ecb.WithWorkers(conf.GetPropInt(config.PropEcbParallelWorkers)),
		ecb.WithMinParallelBlocks(conf.GetPropInt(config.PropEcbParallelMinBlocks)))
	logger.Debugf("%v %v, engine: %v, blocks: %d", conf.GetPropStr(config.PropAppName), version.Version, t.Name(), len(blocks))

	r := Report{
		Version:     version.Version,
		Engine:      t.Name(),
		Accelerated: aes512.HasAccelerated(),
		Key:         hexRows(key[:], keyRowSize),
	}

	ctx := context.Background()
	if *decrypt {
		plain, err := codec.DecryptAllParallel(ctx, blocks)
		if err != nil {
			return err
		}
		r.Ciphertext = hexBlocks(blocks)
		r.Decrypted = hexBlocks(plain)
	} else {
		enc, err := codec.EncryptAllParallel(ctx, blocks)
		if err != nil {
			return err
		}
		dec, err := codec.DecryptAllParallel(ctx, enc)
		if err != nil {
			return err
		}
		for i := range dec {
			if dec[i] != blocks[i] {
				return errs.NewErrf("Round trip failed at block %d, plaintext: %v, decrypted: %v", i, blocks[i], dec[i])
			}
		}
		r.Plaintext = hexBlocks(blocks)
		r.Ciphertext = hexBlocks(enc)
		r.Decrypted = hexBlocks(dec)
	}

	if *asJson {
		return json.EncodeJsonIndent(stdout, r)
	}
	printReport(stdout, r)
	return nil
}

func randomKey(src io.Reader) (aes512.Key, error) {
	var k aes512.Key
	if _, err := io.ReadFull(src, k[:]); err != nil {
		return k, errs.WrapErrf(err, "failed to generate key")
	}
	return k, nil
}

func hexRows(b []byte, n int) []string {
	rows := make([]string, 0, (len(b)+n-1)/n)
	for len(b) > 0 {
		m := min(n, len(b))
		rows = append(rows, fmt.Sprintf("%x", b[:m]))
		b = b[m:]
	}
	return rows
}

func hexBlocks(blocks []aes512.Block) []string {
	s := make([]string, 0, len(blocks))
	for _, b := range blocks {
		s = append(s, b.String())
	}
	return s
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Engine: %v (hardware: %v)\n", r.Engine, r.Accelerated)
	fmt.Fprintln(w, "Key:")
	for _, row := range r.Key {
		fmt.Fprintf(w, "  %v\n", row)
	}
	section := func(name string, rows []string) {
		if len(rows) < 1 {
			return
		}
		fmt.Fprintf(w, "%v:\n", name)
		for _, row := range rows {
			fmt.Fprintf(w, "  %v\n", row)
		}
	}
	section("Plaintext", r.Plaintext)
	section("Ciphertext", r.Ciphertext)
	section("Decrypted", r.Decrypted)
}
