// Package wire defines the JSON request and response documents shared by
// the batch runner and the HTTP server, and converts requests into engine
// requests.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hypostat/hypostat"
)

var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New(validator.WithRequiredStructEnabled())
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Summary carries a sample's sufficient statistics. Exactly one of SD and
// Variance must be set.
type Summary struct {
	Mean     *float64 `json:"mean" validate:"required"`
	SD       *float64 `json:"sd,omitempty" validate:"required_without=Variance,excluded_with=Variance"`
	Variance *float64 `json:"variance,omitempty"`
	N        *int     `json:"n" validate:"required"`
}

// Proportion carries an observed proportion or a success count.
type Proportion struct {
	PHat      *float64 `json:"p_hat,omitempty" validate:"required_without=Successes,excluded_with=Successes"`
	Successes *int     `json:"successes,omitempty"`
	N         *int     `json:"n" validate:"required"`
}

// Request is one test request document. Which fields are mandatory
// depends on Family.
type Request struct {
	ID     string   `json:"id,omitempty" validate:"omitempty,max=128"`
	Family string   `json:"family" validate:"required"`
	Alpha  *float64 `json:"alpha,omitempty"`
	Tail   string   `json:"tail" validate:"required"`

	Sample   []float64 `json:"sample,omitempty" validate:"omitempty,max=1000000,excluded_with=Summary"`
	Summary  *Summary  `json:"summary,omitempty"`
	Sample2  []float64 `json:"sample_2,omitempty" validate:"omitempty,max=1000000,excluded_with=Summary2"`
	Summary2 *Summary  `json:"summary_2,omitempty"`

	// X and Y are matched observations for paired tests.
	X []float64 `json:"x,omitempty" validate:"max=1000000,excluded_with=Sample Summary,required_with=Y"`
	Y []float64 `json:"y,omitempty" validate:"max=1000000,required_with=X"`

	Mu0          *float64 `json:"mu_0,omitempty"`
	Sigma        *float64 `json:"sigma,omitempty"`
	Sigma1       *float64 `json:"sigma_1,omitempty"`
	Sigma2       *float64 `json:"sigma_2,omitempty"`
	NullVariance *float64 `json:"null_variance,omitempty"`
	Delta        *float64 `json:"delta,omitempty"`
	P0           *float64 `json:"p_0,omitempty"`

	Proportion  *Proportion `json:"proportion,omitempty"`
	Proportion2 *Proportion `json:"proportion_2,omitempty"`
}

// Response is one result document. Exactly one of Result and Error is set.
type Response struct {
	ID     string           `json:"id,omitempty"`
	Result *hypostat.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
	Kind   string           `json:"kind,omitempty"`
}

// ErrorResponse builds the response document for a failed request.
func ErrorResponse(id string, err error) Response {
	return Response{ID: id, Error: err.Error(), Kind: Kind(err)}
}

// Decode parses a request document. Malformed JSON and values of the
// wrong type fail with hypostat.ErrInvalidNumericFormat.
func Decode(data []byte) (Request, error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: decoding request: %v", hypostat.ErrInvalidNumericFormat, err)
	}
	return req, nil
}

// Validate checks the structural constraints of the document: required
// fields, mutually exclusive inputs and size limits.
func (r *Request) Validate() error {
	err := requestValidate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldPath(fe), fe.Tag()))
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", hypostat.ErrIncompleteInput, strings.Join(fields, ", "))
}

// fieldPath drops the top-level struct name from a validator namespace,
// turning "Request.summary.sd" into "summary.sd".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
