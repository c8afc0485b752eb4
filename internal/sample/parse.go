package sample

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hypostat/hypostat/internal/validate"
)

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';':
		return true
	}
	return false
}

// Parse reads observations separated by whitespace, commas or semicolons,
// e.g. "10 12 9 11 13" or "10,12;9". Blank input fails with
// validate.ErrIncompleteInput and any token that is not a finite number
// fails with validate.ErrInvalidNumericFormat.
func Parse(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, isSeparator)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no observations", validate.ErrIncompleteInput)
	}

	xs := make([]float64, 0, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: token %d %q", validate.ErrInvalidNumericFormat, i+1, f)
		}
		xs = append(xs, x)
	}
	return xs, nil
}

// ParseNumber reads a single finite number, trimming surrounding space.
func ParseNumber(name, s string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: %s = %q", validate.ErrInvalidNumericFormat, name, s)
	}
	return x, nil
}
