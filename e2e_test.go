//go:build e2e

package hypostat_test

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/hypostat/hypostat/internal/codec"
)

// TestE2E_Batch builds the CLI, runs a compressed batch through it and
// checks that every response comes back in order.
func TestE2E_Batch(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "requests.jsonl.zst")
	output := filepath.Join(tmpDir, "results.jsonl.gz")
	binary := filepath.Join(tmpDir, "hypostat")

	t.Log("Building CLI...")
	build := exec.Command("go", "build", "-o", binary, "./cmd/hypostat")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Error building: %v", err)
	}

	const count = 5000
	if err := writeRequests(input, count); err != nil {
		t.Fatalf("Error writing requests: %v", err)
	}

	t.Log("Running batch...")
	start := time.Now()
	cmd := exec.Command(binary, "batch", "--input", input, "--output", output, "--workers", "4")
	cmd.Dir = tmpDir
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Error running batch: %v", err)
	}
	t.Logf("   %d requests in %v", count, time.Since(start))

	r, err := codec.Open(output)
	if err != nil {
		t.Fatalf("Error opening results: %v", err)
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	n, failed := 0, 0
	for scanner.Scan() {
		var resp struct {
			ID    string `json:"id"`
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("Error decoding line %d: %v", n+1, err)
		}
		if want := fmt.Sprintf("r%d", n); resp.ID != want {
			t.Fatalf("line %d has id %q, want %q", n+1, resp.ID, want)
		}
		// Every tenth request has an invalid alpha.
		if (n%10 == 9) != (resp.Kind == "InvalidSignificanceLevel") {
			t.Errorf("line %d: kind = %q, error = %q", n+1, resp.Kind, resp.Error)
		}
		if resp.Error != "" {
			failed++
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading results: %v", err)
	}

	t.Logf("Results: %d responses, %d failed", n, failed)
	if n != count {
		t.Errorf("got %d responses, want %d", n, count)
	}
}

func writeRequests(path string, count int) error {
	w, err := codec.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := 0; i < count; i++ {
		alpha := 0.05
		if i%10 == 9 {
			alpha = 1.5
		}
		fmt.Fprintf(bw, `{"id":"r%d","family":"welch-t","alpha":%g,"tail":"two-tailed","summary":{"mean":%d,"variance":4,"n":10},"summary_2":{"mean":8,"variance":9,"n":15}}`+"\n", i, alpha, i%17)
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
