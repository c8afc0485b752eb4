// Package batch runs newline-delimited JSON test requests through the
// engine and writes one JSON response per request, in input order.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/codec"
	"github.com/hypostat/hypostat/internal/stats"
	"github.com/hypostat/hypostat/internal/wire"
)

const (
	// chunkSize is the number of lines computed concurrently before their
	// responses are written.
	chunkSize = 1024

	// maxLineBytes is the longest request line accepted.
	maxLineBytes = 16 * 1024 * 1024
)

// Summary reports the outcome of a batch run.
type Summary struct {
	JobID     string
	Lines     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Engine computes a single test. *hypostat.Engine implements it.
type Engine interface {
	Run(req hypostat.Request) (*hypostat.Result, error)
}

// Runner runs batches against an engine.
type Runner struct {
	engine    Engine
	defaults  wire.Defaults
	workers   int
	precision int
	stats     stats.Collector
	logger    *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of concurrent computations.
// Default is runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithPrecision rounds result values to n decimal places.
// A negative n keeps full precision, which is the default.
func WithPrecision(n int) Option {
	return func(r *Runner) { r.precision = n }
}

// WithDefaults sets the values used for omitted optional request fields.
func WithDefaults(d wire.Defaults) Option {
	return func(r *Runner) { r.defaults = d }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(r *Runner) {
		if c != nil {
			r.stats = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l.Named("batch")
		}
	}
}

// NewRunner creates a Runner for engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:    engine,
		defaults:  wire.Defaults{Alpha: 0.05},
		workers:   runtime.GOMAXPROCS(0),
		precision: -1,
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type line struct {
	number int
	data   []byte
}

// Run reads requests from in and writes responses to out. A request that
// fails produces an error response and does not stop the run; only I/O
// errors and cancellation of ctx do.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	start := time.Now()
	sum := Summary{JobID: uuid.NewString()}
	log := r.logger.With(zap.String("job", sum.JobID))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	bw := bufio.NewWriter(out)

	chunk := make([]line, 0, chunkSize)
	flush := func() error {
		responses, err := r.process(ctx, chunk)
		if err != nil {
			return err
		}
		for _, resp := range responses {
			if resp.failed {
				sum.Failed++
			} else {
				sum.Succeeded++
			}
			bw.Write(resp.data)
			bw.WriteByte('\n')
		}
		r.stats.IncCounter(stats.MetricBatchLines, int64(len(chunk)))
		chunk = chunk[:0]
		return nil
	}

	number := 0
	for scanner.Scan() {
		number++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		sum.Lines++
		chunk = append(chunk, line{number: number, data: bytes.Clone(data)})
		if len(chunk) == chunkSize {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("reading requests: %w", err)
	}
	if err := flush(); err != nil {
		return sum, err
	}
	if err := bw.Flush(); err != nil {
		return sum, fmt.Errorf("writing responses: %w", err)
	}

	sum.Duration = time.Since(start)
	log.Info("batch complete",
		zap.Int("lines", sum.Lines),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}

// RunFiles runs the requests in the file at in and writes responses to the
// file at out. Either path may be "-" for the standard streams; ".gz" and
// ".zst" paths are compressed transparently.
func (r *Runner) RunFiles(ctx context.Context, in, out string) (sum Summary, err error) {
	src, err := codec.Open(in)
	if err != nil {
		return sum, err
	}
	defer src.Close()

	dst, err := codec.Create(out)
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", out, cerr)
		}
	}()

	return r.Run(ctx, src, dst)
}

// encoded is a response ready to be written.
type encoded struct {
	data   []byte
	failed bool
}

// process computes a chunk concurrently; responses keep the chunk order.
func (r *Runner) process(ctx context.Context, chunk []line) ([]encoded, error) {
	responses := make([]encoded, len(chunk))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, l := range chunk {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			responses[i] = encode(r.handle(l))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// encode marshals resp. A response that cannot be encoded is replaced by
// an error response for the same line.
func encode(resp wire.Response) encoded {
	b, err := json.Marshal(resp)
	if err != nil {
		resp = wire.ErrorResponse(resp.ID, fmt.Errorf("encoding response: %w", err))
		b, _ = json.Marshal(resp)
	}
	return encoded{data: b, failed: resp.Error != ""}
}

func (r *Runner) handle(l line) wire.Response {
	id := strconv.Itoa(l.number)

	doc, err := wire.Decode(l.data)
	if err != nil {
		return wire.ErrorResponse(id, err)
	}
	if doc.ID != "" {
		id = doc.ID
	}

	req, err := doc.ToRequest(r.defaults)
	if err != nil {
		return wire.ErrorResponse(id, err)
	}
	res, err := r.engine.Run(req)
	if err != nil {
		return wire.ErrorResponse(id, err)
	}
	if r.precision >= 0 {
		res = res.Rounded(r.precision)
	}
	return wire.Response{ID: id, Result: res}
}
