package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/codec"
	"github.com/hypostat/hypostat/internal/wire"
)

// response mirrors wire.Response with metrics decoded into a map.
type response struct {
	ID     string `json:"id"`
	Result *struct {
		Family  string             `json:"family"`
		Tail    string             `json:"tail"`
		Metrics map[string]float64 `json:"metrics"`
	} `json:"result"`
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func newRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	e, err := hypostat.New()
	if err != nil {
		t.Fatalf("hypostat.New() error = %v", err)
	}
	return NewRunner(e, opts...)
}

func decodeResponses(t *testing.T, out *bytes.Buffer) []response {
	t.Helper()
	var responses []response
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var r response
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", scanner.Bytes(), err)
		}
		responses = append(responses, r)
	}
	return responses
}

func TestRunner_Run(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"t1","family":"one-sample-t","tail":"two-tailed","summary":{"mean":52,"sd":10,"n":25},"mu_0":50}`,
		``,
		`{"family":"one-sample-t","alpha":1,"tail":"two-tailed","summary":{"mean":52,"sd":10,"n":25},"mu_0":50}`,
		`not json`,
		`{"id":"w","family":"welch-t","tail":"two-tailed","summary":{"mean":10,"variance":4,"n":10},"summary_2":{"mean":8,"variance":9,"n":15}}`,
	}, "\n")

	var out bytes.Buffer
	sum, err := newRunner(t, WithPrecision(3)).Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Lines != 4 || sum.Succeeded != 2 || sum.Failed != 2 {
		t.Errorf("Summary = %+v, want 4 lines, 2 succeeded, 2 failed", sum)
	}
	if sum.JobID == "" {
		t.Error("Summary.JobID is empty")
	}

	responses := decodeResponses(t, &out)
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(responses))
	}

	if responses[0].ID != "t1" || responses[0].Result == nil {
		t.Fatalf("response 0 = %+v", responses[0])
	}
	if got := responses[0].Result.Metrics["t_critical"]; got != 2.064 {
		t.Errorf("t_critical = %v, want 2.064", got)
	}

	if responses[1].ID != "3" || responses[1].Kind != wire.KindInvalidSignificanceLevel {
		t.Errorf("response 1 = %+v, want id 3 with InvalidSignificanceLevel", responses[1])
	}
	if responses[2].ID != "4" || responses[2].Kind != wire.KindInvalidNumericFormat {
		t.Errorf("response 2 = %+v, want id 4 with InvalidNumericFormat", responses[2])
	}
	if responses[3].ID != "w" || responses[3].Result.Metrics["df"] != 26.994 {
		t.Errorf("response 3 = %+v, want welch df 26.994", responses[3])
	}
}

func TestRunner_PreservesOrder(t *testing.T) {
	var in strings.Builder
	const n = 2*chunkSize + 17
	for i := 0; i < n; i++ {
		fmt.Fprintf(&in, `{"id":"r%d","family":"one-sample-z","tail":"upper","summary":{"mean":%d,"sd":1,"n":4},"sigma":2,"mu_0":0}`+"\n", i, i)
	}

	var out bytes.Buffer
	sum, err := newRunner(t, WithWorkers(8)).Run(context.Background(), strings.NewReader(in.String()), &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Succeeded != n {
		t.Fatalf("Succeeded = %d, want %d", sum.Succeeded, n)
	}

	for i, r := range decodeResponses(t, &out) {
		if want := fmt.Sprintf("r%d", i); r.ID != want {
			t.Fatalf("response %d has id %q, want %q", i, r.ID, want)
		}
		// z = mean / (2 / sqrt(4)) = mean.
		if got := r.Result.Metrics["z_calc"]; got != float64(i) {
			t.Fatalf("response %d z_calc = %v, want %d", i, got, i)
		}
	}
}

func TestRunner_Defaults(t *testing.T) {
	input := `{"family":"one-sample-z","tail":"upper","summary":{"mean":1,"sd":1,"n":4},"sigma":2,"mu_0":0}`
	var out bytes.Buffer
	_, err := newRunner(t, WithDefaults(wire.Defaults{Alpha: 0.1})).Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	responses := decodeResponses(t, &out)
	if got := responses[0].Result.Metrics["alpha"]; got != 0.1 {
		t.Errorf("alpha = %v, want 0.1", got)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := `{"family":"one-sample-z","tail":"upper","summary":{"mean":1,"sd":1,"n":4},"sigma":2,"mu_0":0}`
	_, err := newRunner(t).Run(ctx, strings.NewReader(input), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunner_Empty(t *testing.T) {
	var out bytes.Buffer
	sum, err := newRunner(t).Run(context.Background(), strings.NewReader("\n\n"), &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Lines != 0 || out.Len() != 0 {
		t.Errorf("Summary = %+v, output %q; want nothing", sum, out.String())
	}
}

func TestRunner_RunFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "requests.jsonl.gz")
	out := filepath.Join(dir, "results.jsonl.zst")

	w, err := codec.Create(in)
	if err != nil {
		t.Fatalf("codec.Create() error = %v", err)
	}
	fmt.Fprintln(w, `{"id":"p","family":"two-proportion-z","tail":"two-tailed","proportion":{"successes":45,"n":100},"proportion_2":{"p_hat":0.3,"n":100}}`)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	sum, err := newRunner(t, WithPrecision(4)).RunFiles(context.Background(), in, out)
	if err != nil {
		t.Fatalf("RunFiles() error = %v", err)
	}
	if sum.Succeeded != 1 {
		t.Fatalf("Summary = %+v, want 1 success", sum)
	}

	r, err := codec.Open(out)
	if err != nil {
		t.Fatalf("codec.Open() error = %v", err)
	}
	defer r.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}

	responses := decodeResponses(t, &buf)
	if got := responses[0].Result.Metrics["z_calc"]; got != 2.1909 {
		t.Errorf("z_calc = %v, want 2.1909", got)
	}
}

func TestRunner_OverflowingStatistic(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"a","family":"one-sample-z","tail":"two-tailed","summary":{"mean":1,"sd":1,"n":4},"sigma":1,"mu_0":0}`,
		`{"id":"b","family":"pooled-t","tail":"two-tailed","summary":{"mean":1e308,"variance":1,"n":10},"summary_2":{"mean":-1e308,"variance":1,"n":10}}`,
		`{"id":"c","family":"one-sample-z","tail":"two-tailed","summary":{"mean":2,"sd":1,"n":4},"sigma":1,"mu_0":0}`,
	}, "\n")

	var out bytes.Buffer
	sum, err := newRunner(t).Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Succeeded != 2 || sum.Failed != 1 {
		t.Errorf("Summary = %+v, want 2 succeeded, 1 failed", sum)
	}

	responses := decodeResponses(t, &out)
	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(responses))
	}
	if responses[0].Result == nil || responses[2].Result == nil {
		t.Errorf("valid lines lost: %+v", responses)
	}
	if responses[1].ID != "b" || responses[1].Kind != wire.KindDomain {
		t.Errorf("responses[1] = %+v, want id b with kind %s", responses[1], wire.KindDomain)
	}
}

// infiniteEngine returns a result that cannot be encoded as JSON.
type infiniteEngine struct{}

func (infiniteEngine) Run(req hypostat.Request) (*hypostat.Result, error) {
	return &hypostat.Result{
		Family:  req.Family(),
		Tail:    hypostat.TwoTailed,
		Metrics: []hypostat.Metric{{Name: "z_calc", Value: math.Inf(1)}},
	}, nil
}

func TestRunner_UnencodableResult(t *testing.T) {
	input := strings.Join([]string{
		`{"family":"one-sample-z","tail":"two-tailed","summary":{"mean":1,"sd":1,"n":4},"sigma":1,"mu_0":0}`,
		`not json`,
	}, "\n")

	var out bytes.Buffer
	sum, err := NewRunner(infiniteEngine{}).Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Failed != 2 {
		t.Errorf("Summary = %+v, want 2 failed", sum)
	}

	responses := decodeResponses(t, &out)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	if responses[0].ID != "1" || responses[0].Kind != wire.KindInternal || responses[0].Result != nil {
		t.Errorf("responses[0] = %+v, want an Internal error for line 1", responses[0])
	}
	if responses[1].Kind != wire.KindInvalidNumericFormat {
		t.Errorf("responses[1].Kind = %q, want %q", responses[1].Kind, wire.KindInvalidNumericFormat)
	}
}
