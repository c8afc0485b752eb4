// Package render formats test results for people: aligned plain text
// (styled with lipgloss on a terminal), JSON and Markdown tables.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/sample"
)

// Format selects an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("render: unknown format")

// ParseFormat parses "text", "json", "markdown" or "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
	statStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
	critStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F"))
)

// Renderer writes results in one format.
type Renderer struct {
	format    Format
	precision int
	styled    bool
}

// New creates a Renderer. Values are rounded to precision decimal places;
// a negative precision prints full precision. Styling applies to the text
// format only.
func New(format Format, precision int, styled bool) *Renderer {
	return &Renderer{format: format, precision: precision, styled: styled}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Result writes res.
func (r *Renderer) Result(w io.Writer, res *hypostat.Result) error {
	if r.precision >= 0 {
		res = res.Rounded(r.precision)
	}
	switch r.format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatMarkdown:
		return r.resultMarkdown(w, res)
	default:
		return r.resultText(w, res)
	}
}

func (r *Renderer) resultText(w io.Writer, res *hypostat.Result) error {
	width := 0
	for _, m := range res.Metrics {
		width = max(width, len(m.Name))
	}

	var b strings.Builder
	b.WriteString(r.style(titleStyle, fmt.Sprintf("%s (%s)", res.Family, res.Tail)))
	b.WriteByte('\n')
	for _, m := range res.Metrics {
		key := fmt.Sprintf("%-*s", width, m.Name)
		val := hypostat.FormatValue(m)
		switch {
		case m.Name == statisticName(res):
			val = r.style(statStyle, val)
		case strings.Contains(m.Name, "_critical"):
			val = r.style(critStyle, val)
		}
		fmt.Fprintf(&b, "  %s  %s\n", r.style(keyStyle, key), val)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) resultMarkdown(w io.Writer, res *hypostat.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", res.Family.Description())
	fmt.Fprintf(&b, "- **Family:** `%s`\n", res.Family)
	fmt.Fprintf(&b, "- **Tail:** %s\n\n", res.Tail)
	b.WriteString("| Quantity | Value |\n")
	b.WriteString("|----------|-------|\n")
	for _, m := range res.Metrics {
		fmt.Fprintf(&b, "| `%s` | %s |\n", m.Name, hypostat.FormatValue(m))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Description writes descriptive statistics for a sample.
func (r *Renderer) Description(w io.Writer, d sample.Description) error {
	round := func(v float64) float64 {
		if r.precision < 0 {
			return v
		}
		return hypostat.Round(v, r.precision)
	}
	rows := []hypostat.Metric{
		{Name: "n", Value: float64(d.N), Integer: true},
		{Name: "mean", Value: round(d.Mean)},
		{Name: "variance", Value: round(d.Variance)},
		{Name: "sd", Value: round(d.StdDev)},
		{Name: "min", Value: round(d.Min)},
		{Name: "q1", Value: round(d.Q1)},
		{Name: "median", Value: round(d.Median)},
		{Name: "q3", Value: round(d.Q3)},
		{Name: "max", Value: round(d.Max)},
	}

	switch r.format {
	case FormatJSON:
		obj := make(map[string]any, len(rows))
		for _, m := range rows {
			obj[m.Name] = m.Value
		}
		obj["n"] = d.N
		return writeJSON(w, obj)
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("## Sample description\n\n")
		b.WriteString("| Statistic | Value |\n")
		b.WriteString("|-----------|-------|\n")
		for _, m := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", m.Name, hypostat.FormatValue(m))
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	var b strings.Builder
	b.WriteString(r.style(titleStyle, "sample"))
	b.WriteByte('\n')
	for _, m := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", r.style(keyStyle, fmt.Sprintf("%-8s", m.Name)), hypostat.FormatValue(m))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Families writes the supported test families.
func (r *Renderer) Families(w io.Writer) error {
	families := hypostat.Families()

	switch r.format {
	case FormatJSON:
		type family struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Tails       []string `json:"tails"`
		}
		out := make([]family, 0, len(families))
		for _, f := range families {
			out = append(out, family{Name: string(f), Description: f.Description(), Tails: tailNames(f)})
		}
		return writeJSON(w, out)
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("| Family | Description | Tails |\n")
		b.WriteString("|--------|-------------|-------|\n")
		for _, f := range families {
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", f, f.Description(), strings.Join(tailNames(f), ", "))
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	width := 0
	for _, f := range families {
		width = max(width, len(f))
	}
	var b strings.Builder
	for _, f := range families {
		name := r.style(titleStyle, fmt.Sprintf("%-*s", width, f))
		fmt.Fprintf(&b, "%s  %s\n", name, f.Description())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func statisticName(res *hypostat.Result) string {
	for _, name := range []string{"t_calc", "z_calc", "chi2_calc", "f_calc"} {
		if _, ok := res.Get(name); ok {
			return name
		}
	}
	return ""
}

func tailNames(f hypostat.Family) []string {
	tails := f.Tails()
	names := make([]string, len(tails))
	for i, t := range tails {
		names[i] = t.String()
	}
	return names
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
