package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
)

const (
	ErrCodeUnknownError     string = "UNKNOWN_ERROR"
	ErrCodeIllegalArgument  string = "ILLEGAL_ARGUMENT"
	ErrCodeInvalidKeySize   string = "INVALID_KEY_SIZE"
	ErrCodeInvalidBlockSize string = "INVALID_BLOCK_SIZE"
	ErrCodeInvalidEngine    string = "INVALID_ENGINE"
	ErrCodeUnsupported      string = "UNSUPPORTED"
)

var (
	ErrUnknownError     *Err = NewErrfCode(ErrCodeUnknownError, "Unknown Error")
	ErrIllegalArgument  *Err = NewErrfCode(ErrCodeIllegalArgument, "Illegal Argument")
	ErrInvalidKeySize   *Err = NewErrfCode(ErrCodeInvalidKeySize, "Invalid Key Size")
	ErrInvalidBlockSize *Err = NewErrfCode(ErrCodeInvalidBlockSize, "Invalid Block Size")
	ErrInvalidEngine    *Err = NewErrfCode(ErrCodeInvalidEngine, "Invalid Cipher Engine")
	ErrUnsupported      *Err = NewErrfCode(ErrCodeUnsupported, "Unsupported")
)

// Coded error.
//
//	Use NewErrf(...) or NewErrfCode(...) to instantiate.
type Err struct {
	code        string // error code, used by errors.Is.
	msg         string // error message.
	internalMsg string // extra context, e.g., the offending length.
	stack       string
	err         error
}

func (e *Err) Cause() error {
	return e.err
}

func (e *Err) InternalMsg() string {
	return e.internalMsg
}

func (e *Err) Msg() string {
	return e.msg
}

func (e *Err) Code() string {
	return e.code
}

func (e *Err) StackTrace() string {
	return e.stack
}

// Create new *Err to wrap the cause error
//
// if cause is nil, nil is returned.
func (e *Err) Wrap(cause error) error {
	if cause == nil {
		return nil
	}
	n := e.copyNew()
	n.err = cause
	n.withStack()
	return n
}

// Create new *Err to wrap the cause error with extra context.
//
// if cause is nil, nil is returned.
func (e *Err) Wrapf(cause error, internalMsg string, args ...any) error {
	if cause == nil {
		return nil
	}
	n := e.copyNew()
	n.err = cause
	n.withStack()
	if len(args) > 0 {
		n.internalMsg = fmt.Sprintf(internalMsg, args...)
	} else {
		n.internalMsg = internalMsg
	}
	return n
}

func (e *Err) copyNew() *Err {
	n := new(Err)
	n.code = e.code
	n.msg = e.msg
	n.internalMsg = e.internalMsg
	n.stack = e.stack
	n.err = e.err
	return n
}

func (e *Err) Error() string {
	tok := []string{}
	if e.msg != "" {
		tok = append(tok, e.msg)
	}
	if e.internalMsg != "" {
		tok = append(tok, e.internalMsg)
	}
	if uw := e.Unwrap(); uw != nil {
		tok = append(tok, uw.Error())
	}
	return strings.Join(tok, ", ")
}

func (e *Err) HasCode() bool {
	return strings.TrimSpace(e.code) != ""
}

// Implements *Err Is check.
//
// Returns true, if both are *Err and the code matches.
//
// WithInternalMsg always create new error, so the predefined errors can be
// reused as sentinels:
//
//	var e1 = ErrInvalidKeySize.WithInternalMsg("got %d bytes", n)
//
//	errors.Is(e1, ErrInvalidKeySize) // true
func (e *Err) Is(target error) bool {
	if te, ok := target.(*Err); ok && e.code != "" && e.code == te.code {
		return true
	}
	return false
}

func (e *Err) WithInternalMsg(msg string, args ...any) *Err {
	ne := e.copyNew()
	ne.withStack()
	if len(args) > 0 {
		ne.internalMsg = fmt.Sprintf(msg, args...)
	} else {
		ne.internalMsg = msg
	}
	return ne
}

func (e *Err) withStack() *Err {
	e.stack = stack(3)
	return e
}

func (e *Err) Unwrap() error {
	return e.err
}

// Create new *Err with message.
func NewErrf(msg string, args ...any) *Err {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	e := &Err{msg: msg}
	e.withStack()
	return e
}

// Create new *Err with message and error code.
func NewErrfCode(code string, msg string, args ...any) *Err {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	e := &Err{msg: msg, code: code}
	e.withStack()
	return e
}

// Wrap an error to create new *Err with stacktrace.
//
// If err is nil, nil is returned.
//
// If err is *Err, err is returned directly.
func WrapErr(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Err); ok {
		return e
	}
	e := &Err{err: err}
	e.withStack()
	return e
}

// Wrap an error to create new *Err with message.
//
// If the wrapped err is nil, nil is returned.
func WrapErrf(err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	e := &Err{msg: msg, err: err}
	e.withStack()
	return e
}

// Equivalent to ErrUnknownError.Wrapf(..).
//
// If err is nil, nil is returned.
func UnknownErrf(err error, msg string, args ...any) error {
	return ErrUnknownError.Wrapf(err, msg, args...)
}

// Find the innermost stack captured by an *Err in the chain.
func UnwrapErrStack(err error) (string, bool) {
	var stack string
	ue := err
	for {
		if e, ok := ue.(*Err); ok && e != nil {
			stack = e.stack
		}
		u := errors.Unwrap(ue)
		if u == nil {
			break
		}
		ue = u
	}
	return stack, stack != ""
}

// Format error message followed by the captured stack, if any.
func ErrorStackTrace(err error) string {
	if err == nil {
		return "nil"
	}
	stackTrace, withStack := UnwrapErrStack(err)
	m := err.Error()
	if withStack {
		m += stackTrace
	}
	return m
}

var stackPool = sync.Pool{
	New: func() any {
		v := make([]uintptr, 50)
		return &v
	},
}

func stack(n int) string {
	pcs := stackPool.Get().(*[]uintptr)
	defer func() {
		clear(*pcs)
		stackPool.Put(pcs)
	}()

	length := runtime.Callers(n, *pcs)
	frames := runtime.CallersFrames((*pcs)[:length])
	b := strings.Builder{}

	for {
		f, next := frames.Next()
		if !next {
			break
		}
		b.WriteString(fmt.Sprintf("\n\t%v\n\t\t%v:%v", f.Function, f.File, f.Line))
	}
	return b.String()
}
