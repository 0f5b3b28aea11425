package timing

import "fmt"

// InvariantViolation reports an internal inconsistency of the engine or of
// the model running on it. It is never caused by user input; a run that
// hits one is aborted.
type InvariantViolation struct {
	Time VTimeInMin
	What string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation @ %.4f: %s", v.Time, v.What)
}

// Violate panics with an InvariantViolation. Engines recover it at the run
// loop boundary and return it from Run.
func Violate(now VTimeInMin, format string, args ...any) {
	panic(&InvariantViolation{
		Time: now,
		What: fmt.Sprintf(format, args...),
	})
}

// recoverViolation turns an InvariantViolation panic into an error. Any other
// panic keeps unwinding.
func recoverViolation(err *error) {
	r := recover()
	if r == nil {
		return
	}

	v, ok := r.(*InvariantViolation)
	if !ok {
		panic(r)
	}

	*err = v
}
