package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/catalog/variations"
	"github.com/matzehuels/flamelink/pkg/errors"
)

const sierpinski = "../../examples/flames/sierpinski.toml"

// run executes the root command in an isolated config and cache home.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := []string{"compose", "variations", "library", "browse", "graph", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestComposeCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "kernel.wgsl")
	spv := filepath.Join(t.TempDir(), "kernel.spv")
	if _, err := run(t, "compose", sierpinski, "-o", out, "--spirv", spv, "--validate"); err != nil {
		t.Fatalf("compose: %v", err)
	}

	src, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), "@compute @workgroup_size(64)") {
		t.Errorf("kernel missing entry point:\n%s", src)
	}

	bin, err := os.ReadFile(spv)
	if err != nil {
		t.Fatal(err)
	}
	if len(bin) < 4 || !bytes.Equal(bin[:4], []byte{0x03, 0x02, 0x23, 0x07}) {
		t.Errorf("SPIR-V magic = % x", bin[:min(4, len(bin))])
	}
}

func TestComposeCommandOptions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "kernel.wgsl")
	_, err := run(t, "compose", sierpinski, "-o", out, "--kernel=false", "--mode", "buffer", "--no-cache")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	src, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(src), "@compute") {
		t.Error("--kernel=false should omit the entry point")
	}
}

func TestComposeCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"compose", "nope.toml", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"bad mode", []string{"compose", sierpinski, "--mode", "uniform", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"compose", sierpinski, "--format", "json", "--no-cache"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestComposeCommandReportsFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "kernel.wgsl")
	stdout, err := run(t, "compose", sierpinski, "-o", out, "--no-cache")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, want := range []string{"sierpinski", out, "3 transforms", "fresh"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestComposeCommandStdoutLogsSkipped(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "odd.toml")
	flame := `name = "odd"

[[xform]]
weight = 1.0
affine = [1.0, 0.0, 0.0, 0.0, 1.0, 0.0]

[[xform.variation]]
name = "linear"
weight = 1.0

[[xform.variation]]
name = "not_a_variation"
weight = 0.5
`
	if err := os.WriteFile(path, []byte(flame), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs, stdout bytes.Buffer
	root := New(&logs, log.InfoLevel).RootCommand()
	root.SetOut(&stdout)
	root.SetArgs([]string{"compose", path, "--no-cache"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !strings.Contains(stdout.String(), "@compute") {
		t.Errorf("stdout should hold the kernel, got:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "not_a_variation") {
		t.Error("warnings leaked into the kernel output")
	}
	if !strings.Contains(logs.String(), "not_a_variation") {
		t.Errorf("skipped variation not logged: %q", logs.String())
	}
}

func TestGraphCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deps.json")
	if _, err := run(t, "graph", "--variations", "crackle", "--reduce", "-o", out); err != nil {
		t.Fatalf("graph: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("graph output is not JSON: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(doc.Nodes))
	}
}

func TestGraphCommandBadFormat(t *testing.T) {
	_, err := run(t, "graph", "--format", "pdf")
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidFormat)
	}
}

func TestFormatFromOutput(t *testing.T) {
	tests := map[string]string{
		"":          "dot",
		"deps.svg":  "svg",
		"deps.PNG":  "png",
		"deps.json": "json",
		"deps.txt":  "dot",
	}
	for in, want := range tests {
		if got := formatFromOutput(in); got != want {
			t.Errorf("formatFromOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVariationsCommandBadKind(t *testing.T) {
	_, err := run(t, "variations", "--kind", "4d")
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidInput {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidInput)
	}
	_, err = run(t, "variations", "nope")
	if got := errors.GetCode(err); got != errors.ErrCodeUnknownVariation {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeUnknownVariation)
	}
}

func TestVariationsCheck(t *testing.T) {
	if _, err := run(t, "variations", "--check"); err != nil {
		t.Errorf("built-in catalog should resolve: %v", err)
	}
}

func TestVariationsCommandDescribe(t *testing.T) {
	out, err := run(t, "variations", "julian")
	if err != nil {
		t.Fatalf("variations julian: %v", err)
	}
	for _, want := range []string{"julian", "power", "dist"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVariationsCommandFilter(t *testing.T) {
	out, err := run(t, "variations", "--kind", "3d")
	if err != nil {
		t.Fatalf("variations --kind 3d: %v", err)
	}
	if strings.Contains(out, "│ swirl ") {
		t.Errorf("2D-only variation listed under 3d:\n%s", out)
	}
}

func TestLibraryCommand(t *testing.T) {
	out, err := run(t, "library")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if !strings.Contains(out, "Used by") {
		t.Errorf("library table missing header:\n%s", out)
	}

	if _, err := run(t, "library", "no_such_fn"); errors.GetCode(err) != errors.ErrCodeMissingLibraryFunction {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeMissingLibraryFunction)
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	compose := c.RootCommand()
	compose.SetArgs([]string{"compose", sierpinski, "-o", filepath.Join(t.TempDir(), "k.wgsl")})
	if err := compose.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("compose: %v", err)
	}
	dir, _ := cacheDir()
	if n, _ := countFiles(dir); n == 0 {
		t.Fatal("compose should have populated the cache")
	}

	clearCmd := c.RootCommand()
	clearCmd.SetArgs([]string{"cache", "clear"})
	if err := clearCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n, _ := countFiles(dir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[cache]\ndir = \"/tmp/flamelink-test-cache\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != "/tmp/flamelink-test-cache" {
		t.Errorf("cache path = %q", got)
	}

	if _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "cache", "path"); err == nil {
		t.Error("an explicit missing config should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the program name")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m CatalogModel, keys ...string) CatalogModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(CatalogModel)
	}
	return m
}

func TestCatalogModelNavigation(t *testing.T) {
	cat := variations.Default()
	m := NewCatalogModel(cat)
	if len(m.Items) != cat.Len() {
		t.Fatalf("items = %d, want %d", len(m.Items), cat.Len())
	}

	m = update(m, "down", "down", "up")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
	m = update(m, "up", "up")
	if m.Cursor != 0 {
		t.Errorf("cursor should stop at 0, got %d", m.Cursor)
	}

	m = update(m, "down", "enter")
	if !m.Detail || m.Selected != m.Items[1] {
		t.Fatal("enter should open the selected variation")
	}
	if view := m.View(); !strings.Contains(view, m.Selected.Name) {
		t.Errorf("detail view should name %s", m.Selected.Name)
	}
	m = update(m, "esc")
	if m.Detail {
		t.Error("esc should return to the list")
	}
}

func TestCatalogModelFilter(t *testing.T) {
	cat := variations.Default()
	m := update(NewCatalogModel(cat), "down", "tab")
	if browseFilters[m.Filter] != catalog.Kind2D || m.Cursor != 0 {
		t.Fatalf("filter = %v cursor = %d", browseFilters[m.Filter], m.Cursor)
	}
	if len(m.Items) != len(cat.Filter(catalog.Kind2D)) {
		t.Errorf("items = %d, want 2d subset", len(m.Items))
	}

	m = update(m, "tab", "tab")
	for _, d := range m.Items {
		if d.Pass() != catalog.PassPost {
			t.Errorf("%s in post filter", d.Name)
		}
	}
	if !strings.Contains(m.View(), "post") {
		t.Error("list view should show the active filter")
	}
}

func TestCatalogModelQuit(t *testing.T) {
	_, cmd := NewCatalogModel(variations.Default()).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestCatalogModelWindowSize(t *testing.T) {
	next, _ := NewCatalogModel(variations.Default()).Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if h := next.(CatalogModel).Height; h != 5 {
		t.Errorf("height = %d, want clamp to 5", h)
	}
}
