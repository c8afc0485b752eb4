package hypostat

import (
	"fmt"
	"strings"
)

// Tail selects which side(s) of the reference distribution form the
// rejection region. The zero value is unset and is rejected by the engine.
type Tail int

const (
	// TwoTailed splits alpha between both tails.
	TwoTailed Tail = iota + 1
	// UpperTailed places alpha in the right tail.
	UpperTailed
	// LowerTailed places alpha in the left tail. Variance-ratio tests do not
	// support it.
	LowerTailed
)

// Tails lists the valid tail selectors.
func Tails() []Tail {
	return []Tail{TwoTailed, UpperTailed, LowerTailed}
}

// String returns the canonical name of the tail.
func (t Tail) String() string {
	switch t {
	case TwoTailed:
		return "two-tailed"
	case UpperTailed:
		return "upper"
	case LowerTailed:
		return "lower"
	case 0:
		return "unset"
	default:
		return fmt.Sprintf("tail(%d)", int(t))
	}
}

func (t Tail) valid() bool {
	return t >= TwoTailed && t <= LowerTailed
}

// ParseTail converts a tail name into a Tail. Names are case-insensitive.
// Besides the canonical names it accepts two, both, bilateral, right,
// greater, unilateral_dir, left, less and unilateral_esq.
func ParseTail(s string) (Tail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "two-tailed", "two", "both", "bilateral":
		return TwoTailed, nil
	case "upper", "right", "greater", "unilateral_dir":
		return UpperTailed, nil
	case "lower", "left", "less", "unilateral_esq":
		return LowerTailed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTail, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tail) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTail, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tail) UnmarshalText(b []byte) error {
	v, err := ParseTail(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
