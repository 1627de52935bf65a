package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrinterErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	p.Error(NewSystemError("disk full"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result["error"] != "disk full" {
		t.Errorf("error = %v, want %q", result["error"], "disk full")
	}
	if int(result["code"].(float64)) != ExitSystemError {
		t.Errorf("code = %v, want %d", result["code"], ExitSystemError)
	}
}

func TestPrinterErrorHuman(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, false, false).WithStderr(&errOut)

	p.Error(NewUserError("bad flag"))

	if out.Len() != 0 {
		t.Errorf("human error leaked to stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "bad flag") {
		t.Errorf("stderr = %q, want message", errOut.String())
	}
}

func TestPrinterErrorWrapsPlainErrors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	p.Error(errors.New("plain"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if int(result["code"].(float64)) != ExitUserError {
		t.Errorf("plain error code = %v, want %d", result["code"], ExitUserError)
	}
}

func TestPrinterSuccessMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	if err := p.Success(map[string]any{"message": "saved", "chain_id": "x"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "saved") {
		t.Errorf("output = %q, want message line", buf.String())
	}
	if strings.Contains(buf.String(), "chain_id") {
		t.Errorf("human mode printed raw keys alongside message: %q", buf.String())
	}
}

func TestPrinterSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	if err := p.Success(map[string]any{"message": "saved", "steps": 3}); err != nil {
		t.Fatal(err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result["steps"].(float64) != 3 {
		t.Errorf("steps = %v, want 3", result["steps"])
	}
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.Table([]string{"ID", "STEPS"}, [][]string{
		{"alpha", "2"},
		{"b", "14"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("table lines = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], "alpha  ") {
		t.Errorf("row = %q, want aligned columns", lines[1])
	}
}

func TestPrinterKeyValue(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.KeyValue("Branch", "main")

	if got := buf.String(); got != "Branch: main\n" {
		t.Errorf("KeyValue = %q", got)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user error", NewUserError("x"), ExitUserError},
		{"system error", NewSystemError("x"), ExitSystemError},
		{"conflict", NewConflictError("x"), ExitConflict},
		{"plain error", errors.New("x"), ExitUserError},
		{"wrapped exit error", errWrap{NewSystemError("inner")}, ExitSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

// errWrap wraps an error for unwrap testing.
type errWrap struct{ inner error }

func (e errWrap) Error() string { return "wrapped: " + e.inner.Error() }
func (e errWrap) Unwrap() error { return e.inner }

func TestExitErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewSystemErrorWithCause("context", cause)

	if !errors.Is(err, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}
}
