package panicerr

import "runtime/debug"

// Recover calls f, converting any panic that escapes it into a non-nil error
// return. The recovered error wraps the panic value, so that errors.As and
// errors.Is see through it when the value is itself an error.
//
// Unlike a goroutine boundary, f runs on the caller's stack, so state owned by
// the caller is never touched concurrently.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = panicError{name: name, e: e, stack: debug.Stack()}
		}
	}()
	return f()
}
