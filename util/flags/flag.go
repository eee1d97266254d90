package flags

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/curtisnewbie/ecbaes/errs"
)

// FlagSet that knows which flags are required.
type Set struct {
	fs            *flag.FlagSet
	out           io.Writer
	requiredFlags map[string]struct{}
	description   string
	extra         string
}

// Create Set, usage and errors are written to out.
func NewSet(name string, out io.Writer) *Set {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return &Set{
		fs:            fs,
		out:           out,
		requiredFlags: map[string]struct{}{},
	}
}

func updateUsage(usage string, required bool) string {
	if required {
		usage = strings.TrimSpace(usage)
		if usage != "" {
			usage = usage + ". "
		}
		usage = usage + "Required."
	}
	return usage
}

func (s *Set) require(name string, required bool) {
	if required {
		s.requiredFlags[name] = struct{}{}
	}
}

func (s *Set) Int(name string, value int, usage string, required bool) *int {
	p := s.fs.Int(name, value, updateUsage(usage, required))
	s.require(name, required)
	return p
}

func (s *Set) Bool(name string, value bool, usage string, required bool) *bool {
	p := s.fs.Bool(name, value, updateUsage(usage, required))
	s.require(name, required)
	return p
}

func (s *Set) String(name string, value string, usage string, required bool) *string {
	p := s.fs.String(name, value, updateUsage(usage, required))
	s.require(name, required)
	return p
}

type StrSliceFlag []string

func (s *StrSliceFlag) String() string {
	return fmt.Sprintf("%v", []string(*s))
}

func (s *StrSliceFlag) Set(t string) error {
	*s = append(*s, t)
	return nil
}

// Repeatable string flag.
func (s *Set) StrSlice(name string, usage string, required bool) *StrSliceFlag {
	p := new(StrSliceFlag)
	s.fs.Var(p, name, updateUsage(usage, required))
	s.require(name, required)
	return p
}

// Hex encoded bytes.
//
// When size > 0, the decoded value must be exactly size bytes, otherwise it
// must be a non-zero multiple of -size bytes, e.g., -16 for whole blocks.
type HexBytesFlag struct {
	size  int
	Bytes []byte
}

func (h *HexBytesFlag) String() string {
	if h == nil {
		return ""
	}
	return hex.EncodeToString(h.Bytes)
}

func (h *HexBytesFlag) Set(t string) error {
	t = strings.Join(strings.Fields(t), "")
	b, err := hex.DecodeString(t)
	if err != nil {
		return errs.ErrIllegalArgument.Wrapf(err, "invalid hex string")
	}
	if h.size > 0 && len(b) != h.size {
		return errs.ErrIllegalArgument.WithInternalMsg("expected %d bytes, got %d", h.size, len(b))
	}
	if h.size < 0 && (len(b) == 0 || len(b)%-h.size != 0) {
		return errs.ErrIllegalArgument.WithInternalMsg("expected a non-zero multiple of %d bytes, got %d", -h.size, len(b))
	}
	h.Bytes = b
	return nil
}

// Whether the flag was given.
func (h *HexBytesFlag) IsSet() bool {
	return h.Bytes != nil
}

func (s *Set) HexBytes(name string, size int, usage string, required bool) *HexBytesFlag {
	p := &HexBytesFlag{size: size}
	s.fs.Var(p, name, updateUsage(usage, required))
	s.require(name, required)
	return p
}

func (s *Set) visited() map[string]struct{} {
	m := map[string]struct{}{}
	s.fs.Visit(func(f *flag.Flag) {
		m[f.Name] = struct{}{}
	})
	return m
}

func (s *Set) WithDescription(d string) {
	s.description = d
}

func (s *Set) WithExtra(e string) {
	s.extra = e
}

// Remaining non-flag args.
func (s *Set) Args() []string {
	return s.fs.Args()
}

// Whether the flag was given explicitly.
func (s *Set) IsSet(name string) bool {
	_, ok := s.visited()[name]
	return ok
}

func (s *Set) Usage() {
	s.fs.Usage()
}

// Parse args, missing required flags are reported as errs.ErrIllegalArgument.
//
// flag.ErrHelp is returned as is when -h or -help is given.
func (s *Set) Parse(args []string) error {
	s.fs.Usage = func() {
		if s.description != "" {
			fmt.Fprintf(s.out, "\n%s\n", s.description)
		}
		fmt.Fprintf(s.out, "Usage of %s:\n", s.fs.Name())
		s.fs.PrintDefaults()
		if s.extra != "" {
			fmt.Fprintf(s.out, "\n%s\n", s.extra)
		}
	}

	if err := s.fs.Parse(args); err != nil {
		return err
	}
	m := s.visited()
	for name := range s.requiredFlags {
		if _, ok := m[name]; !ok {
			fmt.Fprintf(s.out, "Arg '%v' is required \n\n", name)
			s.fs.Usage()
			return errs.ErrIllegalArgument.WithInternalMsg("arg '%v' is required", name)
		}
	}
	return nil
}
