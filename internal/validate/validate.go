// Package validate provides the statistical precondition checks shared by
// every test family. Each check is independent and returns a wrapped
// sentinel error on violation.
package validate

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for the input error taxonomy.
var (
	// ErrInvalidNumericFormat indicates a value could not be read as a number.
	ErrInvalidNumericFormat = errors.New("hypostat: invalid numeric format")

	// ErrInvalidSignificanceLevel indicates alpha is outside (0, 1).
	ErrInvalidSignificanceLevel = errors.New("hypostat: significance level must satisfy 0 < alpha < 1")

	// ErrInsufficientSampleSize indicates a sample with fewer than two observations.
	ErrInsufficientSampleSize = errors.New("hypostat: sample size must be at least 2")

	// ErrInvalidSpread indicates a negative (or, where it divides, zero) spread parameter.
	ErrInvalidSpread = errors.New("hypostat: invalid spread parameter")

	// ErrInvalidNullVariance indicates a hypothesized variance that is not strictly positive.
	ErrInvalidNullVariance = errors.New("hypostat: hypothesized variance must be positive")

	// ErrInvalidProportion indicates a proportion outside [0, 1].
	ErrInvalidProportion = errors.New("hypostat: proportion must lie in [0, 1]")

	// ErrIncompleteInput indicates a mandatory input is missing.
	ErrIncompleteInput = errors.New("hypostat: incomplete input parameters")

	// ErrInvalidTail indicates an unknown or unsupported tail selector.
	ErrInvalidTail = errors.New("hypostat: invalid tail type")

	// ErrDomain indicates an argument outside a function's mathematical domain.
	ErrDomain = errors.New("hypostat: domain error")

	// ErrDivisionByZero indicates a ratio whose divisor evaluated to zero.
	// It is a domain error: errors.Is(ErrDivisionByZero, ErrDomain) is true.
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrDomain)
)

// Finite checks that a supplied parameter is a finite number.
func Finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidNumericFormat, name, v)
	}
	return nil
}

// Alpha checks that the significance level lies in the open interval (0, 1).
func Alpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidSignificanceLevel, alpha)
	}
	return nil
}

// SampleSize checks that n > 1.
func SampleSize(name string, n int) error {
	if n <= 1 {
		return fmt.Errorf("%w: %s = %d", ErrInsufficientSampleSize, name, n)
	}
	return nil
}

// Variance checks that a variance (or standard deviation) is non-negative.
func Variance(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidSpread, name, v)
	}
	return nil
}

// Spread checks a spread parameter that is used as a divisor.
// Negative values fail with ErrInvalidSpread; zero additionally matches
// ErrDivisionByZero.
func Spread(name string, v float64) error {
	if err := Variance(name, v); err != nil {
		return err
	}
	if v == 0 {
		return fmt.Errorf("%w: %w: %s is zero", ErrInvalidSpread, ErrDivisionByZero, name)
	}
	return nil
}

// NullVariance checks that a hypothesized variance is strictly positive.
func NullVariance(v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidNullVariance, v)
	}
	return nil
}

// Proportion checks that p lies in the closed interval [0, 1].
func Proportion(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidProportion, name, p)
	}
	return nil
}

// Successes checks that a success count lies in [0, n].
func Successes(name string, successes, n int) error {
	if successes < 0 || successes > n {
		return fmt.Errorf("%w: %s = %d out of %d", ErrInvalidProportion, name, successes, n)
	}
	return nil
}

// Divisor checks that d can safely divide: non-zero and finite.
func Divisor(name string, d float64) error {
	if d == 0 {
		return fmt.Errorf("%w: %s is zero", ErrDivisionByZero, name)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: %s is %v", ErrDomain, name, d)
	}
	return nil
}
