package wire

import (
	"errors"

	"github.com/hypostat/hypostat"
)

// Error kinds reported in response documents.
const (
	KindInvalidNumericFormat     = "InvalidNumericFormat"
	KindInvalidSignificanceLevel = "InvalidSignificanceLevel"
	KindInsufficientSampleSize   = "InsufficientSampleSize"
	KindInvalidSpread            = "InvalidSpreadParameter"
	KindInvalidNullVariance      = "InvalidNullVariance"
	KindInvalidProportion        = "InvalidProportion"
	KindIncompleteInput          = "IncompleteInputParameters"
	KindInvalidTail              = "InvalidTailTypeSelector"
	KindUnknownFamily            = "UnknownFamily"
	KindDivisionByZero           = "DivisionByZero"
	KindDomain                   = "DomainError"
	KindInternal                 = "Internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{hypostat.ErrInvalidNumericFormat, KindInvalidNumericFormat},
	{hypostat.ErrInvalidSignificanceLevel, KindInvalidSignificanceLevel},
	{hypostat.ErrInsufficientSampleSize, KindInsufficientSampleSize},
	{hypostat.ErrInvalidSpread, KindInvalidSpread},
	{hypostat.ErrInvalidNullVariance, KindInvalidNullVariance},
	{hypostat.ErrInvalidProportion, KindInvalidProportion},
	{hypostat.ErrIncompleteInput, KindIncompleteInput},
	{hypostat.ErrInvalidTail, KindInvalidTail},
	{hypostat.ErrUnknownFamily, KindUnknownFamily},
	{hypostat.ErrDivisionByZero, KindDivisionByZero},
	{hypostat.ErrDomain, KindDomain},
}

// Kind classifies err into the name of its error kind. A zero spread is
// reported as InvalidSpreadParameter even though it is also a division by
// zero. Errors outside the taxonomy are Internal.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsInputError reports whether err was caused by the request rather than
// by the server.
func IsInputError(err error) bool {
	return Kind(err) != KindInternal
}
