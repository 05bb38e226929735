package enhance

import (
	"errors"
	"fmt"
)

var (
	// ErrValue is the sentinel matched by every ValueError.
	ErrValue = errors.New("value error")

	// ErrUnknownOp is returned for operation names that are not registered.
	ErrUnknownOp = errors.New("unknown operation")
)

// ValueError reports a degenerate numeric input or an invalid parameter.
type ValueError struct {
	Op     Op
	Detail string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// Is makes errors.Is(err, ErrValue) hold for any ValueError.
func (e *ValueError) Is(target error) bool {
	return target == ErrValue
}

func valueErrorf(op Op, format string, args ...interface{}) error {
	return &ValueError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
