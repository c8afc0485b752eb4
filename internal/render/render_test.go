package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/sample"
)

func testResult() *hypostat.Result {
	return &hypostat.Result{
		Family: hypostat.FamilyOneSampleT,
		Tail:   hypostat.TwoTailed,
		Metrics: []hypostat.Metric{
			{Name: "x_bar", Value: 52.123456},
			{Name: "s", Value: 10},
			{Name: "n", Value: 25, Integer: true},
			{Name: "mu_0", Value: 50},
			{Name: "t_calc", Value: 1.0617},
			{Name: "df", Value: 24, Integer: true},
			{Name: "t_critical", Value: 2.063898561628025},
			{Name: "alpha", Value: 0.05},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestRenderer_ResultText(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatText, 4, false).Result(&buf, testResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	want := strings.Join([]string{
		"one-sample-t (two-tailed)",
		"  x_bar       52.1235",
		"  s           10",
		"  n           25",
		"  mu_0        50",
		"  t_calc      1.0617",
		"  df          24",
		"  t_critical  2.0639",
		"  alpha       0.05",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("Result() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderer_ResultFullPrecision(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatText, -1, false).Result(&buf, testResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if !strings.Contains(buf.String(), "2.063898561628025") {
		t.Errorf("Result() = %q, want unrounded critical value", buf.String())
	}
}

func TestRenderer_ResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatJSON, 2, false).Result(&buf, testResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var got struct {
		Family  string             `json:"family"`
		Tail    string             `json:"tail"`
		Metrics map[string]float64 `json:"metrics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, buf.String())
	}
	if got.Family != "one-sample-t" || got.Tail != "two-tailed" {
		t.Errorf("family, tail = %q, %q", got.Family, got.Tail)
	}
	if got.Metrics["t_critical"] != 2.06 {
		t.Errorf("t_critical = %v, want 2.06", got.Metrics["t_critical"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("Result() JSON not indented:\n%s", buf.String())
	}
}

func TestRenderer_ResultMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatMarkdown, 4, false).Result(&buf, testResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"## One-sample mean, unknown spread (Student t)",
		"- **Tail:** two-tailed",
		"| Quantity | Value |",
		"| `t_critical` | 2.0639 |",
		"| `n` | 25 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_Styled(t *testing.T) {
	var plain, styled bytes.Buffer
	if err := New(FormatText, 4, false).Result(&plain, testResult()); err != nil {
		t.Fatal(err)
	}
	if err := New(FormatText, 4, true).Result(&styled, testResult()); err != nil {
		t.Fatal(err)
	}
	// Styled output keeps every value even when the color profile strips escapes.
	for _, want := range []string{"52.1235", "2.0639", "one-sample-t"} {
		if !strings.Contains(styled.String(), want) {
			t.Errorf("styled output missing %q", want)
		}
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output contains escape codes: %q", plain.String())
	}
}

func TestRenderer_Description(t *testing.T) {
	d, err := sample.Describe([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	var buf bytes.Buffer
	if err := New(FormatText, 3, false).Description(&buf, d); err != nil {
		t.Fatalf("Description() error = %v", err)
	}
	for _, want := range []string{"n         5", "mean      3", "variance  2.5", "sd        1.581", "median    3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Description() missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := New(FormatJSON, 3, false).Description(&buf, d); err != nil {
		t.Fatalf("Description() error = %v", err)
	}
	var got map[string]float64
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["n"] != 5 || got["max"] != 5 || got["min"] != 1 {
		t.Errorf("Description() JSON = %v", got)
	}
}

func TestRenderer_Families(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatJSON, -1, false).Families(&buf); err != nil {
		t.Fatalf("Families() error = %v", err)
	}
	var got []struct {
		Name  string   `json:"name"`
		Tails []string `json:"tails"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(got) != len(hypostat.Families()) {
		t.Fatalf("got %d families, want %d", len(got), len(hypostat.Families()))
	}
	last := got[len(got)-1]
	if last.Name != "variance-ratio-f" || len(last.Tails) != 2 {
		t.Errorf("last family = %+v, want variance-ratio-f with 2 tails", last)
	}

	buf.Reset()
	if err := New(FormatText, -1, false).Families(&buf); err != nil {
		t.Fatalf("Families() error = %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != len(hypostat.Families()) {
		t.Errorf("text families has %d lines, want %d", lines, len(hypostat.Families()))
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true")
	}
}
