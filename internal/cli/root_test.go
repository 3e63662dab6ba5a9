package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/pad"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersion("", "", "") })

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2024-01-01" {
		t.Errorf("date = %q, want %q", date, "2024-01-01")
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := RootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"[manipulation]", "[drawing]", "stroke_width = 3.0", `origin = "center"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.toml")
	if err := os.WriteFile(path, []byte("[drawing]\nstroke_width = 7.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "--config", path, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "stroke_width = 7.0") {
		t.Errorf("config file not applied:\n%s", out)
	}
}

func TestConfigFlagInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.toml")
	if err := os.WriteFile(path, []byte("[drawing]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "", "--config", path, "config")
	if !pad.IsCode(err, pad.CodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestConfigFromContextDefault(t *testing.T) {
	cfg := configFromContext(context.Background())
	if cfg.Drawing.StrokeWidth != pad.DefaultConfig().Drawing.StrokeWidth {
		t.Errorf("expected defaults, got %+v", cfg.Drawing)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, 0)
	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("logger not retrieved from context")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("expected default logger")
	}
}

func TestNewManagerRegistersPlugins(t *testing.T) {
	m, err := NewManager(pad.DefaultConfig(), 800, 600)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	want := []string{"CanvasObjectInteraction", "CanvasInteraction", "CanvasDrawing", "ImageBox", "MarkdownNote"}
	got := m.Plugins()
	if len(got) != len(want) {
		t.Fatalf("plugins = %d, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Name() != want[i] {
			t.Errorf("plugin %d = %q, want %q", i, p.Name(), want[i])
		}
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
}
