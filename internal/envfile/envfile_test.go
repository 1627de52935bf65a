package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment
CHAINLOG_TEST_A=plain
export CHAINLOG_TEST_B="quoted value"
CHAINLOG_TEST_C='single quoted'

not a valid line
CHAINLOG_TEST_D=`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHAINLOG_TEST_A", "")
	t.Setenv("CHAINLOG_TEST_B", "")
	t.Setenv("CHAINLOG_TEST_C", "")
	t.Setenv("CHAINLOG_TEST_EXISTING", "keep-me")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := os.Getenv("CHAINLOG_TEST_A"); got != "plain" {
		t.Errorf("A = %q", got)
	}
	if got := os.Getenv("CHAINLOG_TEST_B"); got != "quoted value" {
		t.Errorf("B = %q", got)
	}
	if got := os.Getenv("CHAINLOG_TEST_C"); got != "single quoted" {
		t.Errorf("C = %q", got)
	}
	if got := os.Getenv("CHAINLOG_TEST_EXISTING"); got != "keep-me" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load of missing file = %v, want nil", err)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"plain", "KEY=value", "KEY", "value", true},
		{"export prefix", "export KEY=value", "KEY", "value", true},
		{"double quotes", `KEY="a b"`, "KEY", "a b", true},
		{"single quotes", "KEY='a b'", "KEY", "a b", true},
		{"equals in value", "KEY=a=b", "KEY", "a=b", true},
		{"empty value", "KEY=", "KEY", "", true},
		{"no equals", "JUSTTEXT", "", "", false},
		{"empty key", "=value", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := parseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if key != tt.wantKey || value != tt.wantValue {
				t.Errorf("parseLine(%q) = (%q, %q), want (%q, %q)",
					tt.line, key, value, tt.wantKey, tt.wantValue)
			}
		})
	}
}
