package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/config"
)

const (
	blinkSource = "Component Blink (LED : OUT STD_LOGIC;){}"
	topSource   = "Main (){NewComponent Blink (LED => x); NewComponent uart_tx (tx => y);}"
	uartSource  = `entity uart_tx is
  port (
    clk : in  std_logic;
    tx  : out std_logic
  );
end entity;
`
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, raw string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func runForTest(t *testing.T, cfg *config.Config, root string) *Result {
	t.Helper()
	result, err := New(cfg, nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func rulesIn(result *Result, file string) []string {
	var rules []string
	for _, d := range result.Diagnostics {
		if file == "" || d.File == file {
			rules = append(rules, d.Rule)
		}
	}
	return rules
}

func hasRule(rules []string, rule string) bool {
	for _, r := range rules {
		if r == rule {
			return true
		}
	}
	return false
}

func TestRunLinksAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	blink := writeSource(t, dir, "blink.vhdp", blinkSource)
	top := writeSource(t, dir, "top.vhdp", topSource)
	uart := writeSource(t, dir, "uart.vhd", uartSource)

	result := runForTest(t, testConfig(t, `{"analysis":{"cache":{"enabled":false}}}`), dir)

	if result.Summary.Files != 3 {
		t.Fatalf("expected 3 files, got %+v", result.Files)
	}
	if hasRule(rulesIn(result, top), config.RuleUndefinedComponent) {
		t.Fatalf("expected Blink and uart_tx to resolve, got %v", result.Diagnostics)
	}

	kinds := map[string]string{}
	for _, c := range result.Tables.Components {
		kinds[c.Name] = c.Kind
	}
	if kinds["Blink"] != "component" || kinds["top"] != "main" || kinds["uart_tx"] != "external" {
		t.Fatalf("unexpected components %+v", result.Tables.Components)
	}

	targets := map[string]string{}
	for _, d := range result.Tables.Dependencies {
		if d.File == top {
			targets[strings.ToLower(d.Target)] = d.TargetFile
		}
	}
	if targets["blink"] != blink || targets["uart_tx"] != uart {
		t.Fatalf("unexpected dependencies %+v", result.Tables.Dependencies)
	}

	report := result.Impact(blink)
	if len(report.Levels) != 1 || len(report.Levels[0]) != 1 || report.Levels[0][0] != top {
		t.Fatalf("unexpected impact %+v", report)
	}
	if result.Contexts[uart] == nil {
		t.Fatalf("expected a context for the VHDL file")
	}
}

func TestRunReportsDuplicateComponents(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.vhdp", blinkSource)
	second := writeSource(t, dir, "b.vhdp", blinkSource)

	result := runForTest(t, testConfig(t, `{"analysis":{"cache":{"enabled":false}}}`), dir)

	var found bool
	for _, d := range result.Diagnostics {
		if d.Rule == "policy:duplicate_component" {
			found = true
			if d.File != second || d.Severity != "error" || d.Phase != "policy" {
				t.Fatalf("unexpected duplicate diagnostic %+v", d)
			}
		}
	}
	if !found || !result.HasErrors() {
		t.Fatalf("expected duplicate_component error, got %v", result.Diagnostics)
	}
}

func TestRunRuleSeverities(t *testing.T) {
	dir := t.TempDir()
	lonely := writeSource(t, dir, "lonely.vhdp", "Component Lonely (LED : OUT STD_LOGIC;){}")

	result := runForTest(t, testConfig(t, `{"analysis":{"cache":{"enabled":false}}}`), dir)
	if !hasRule(rulesIn(result, lonely), "policy:unused_component") {
		t.Fatalf("expected unused_component hint, got %v", result.Diagnostics)
	}

	cfg := testConfig(t, `{
		"analysis": {"cache": {"enabled": false}},
		"lint": {"rules": {"policy:unused_component": "off"}}
	}`)
	result = runForTest(t, cfg, dir)
	if hasRule(rulesIn(result, lonely), "policy:unused_component") {
		t.Fatalf("expected unused_component to be switched off, got %v", result.Diagnostics)
	}

	cfg = testConfig(t, `{
		"analysis": {"cache": {"enabled": false}},
		"lint": {"rules": {"policy:unused_component": "error"}}
	}`)
	result = runForTest(t, cfg, dir)
	if !result.HasErrors() {
		t.Fatalf("expected unused_component promoted to error, got %v", result.Diagnostics)
	}
}

func TestRunThirdPartySuppressed(t *testing.T) {
	dir := t.TempDir()
	vendor := writeSource(t, dir, filepath.Join("ip", "lonely.vhdp"), "Component Lonely (LED : OUT STD_LOGIC;){}")

	cfg := testConfig(t, `{
		"libraries": {
			"ip": {"files": ["ip/*.vhdp"], "isThirdParty": true}
		},
		"analysis": {"cache": {"enabled": false}}
	}`)
	result := runForTest(t, cfg, dir)

	if len(result.Files) != 1 || !result.Files[0].IsThirdParty || result.Files[0].Library != "ip" {
		t.Fatalf("unexpected files %+v", result.Files)
	}
	if rules := rulesIn(result, vendor); len(rules) != 0 {
		t.Fatalf("expected third-party findings to be suppressed, got %v", rules)
	}
}

func TestRunUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "blink.vhdp", blinkSource)
	top := writeSource(t, dir, "top.vhdp", topSource)
	cfg := testConfig(t, `{"analysis":{"cache":{"dir":".cache"}}}`)

	first := runForTest(t, cfg, dir)
	for _, f := range first.Files {
		if f.Cached {
			t.Fatalf("expected cold cache, got %+v", f)
		}
	}

	second := runForTest(t, cfg, dir)
	for _, f := range second.Files {
		if !f.Cached {
			t.Fatalf("expected cache hit for %s", f.Path)
		}
	}
	if len(first.Diagnostics) != len(second.Diagnostics) {
		t.Fatalf("cached run differs: %v vs %v", first.Diagnostics, second.Diagnostics)
	}

	// A body edit in blink.vhdp keeps the project fingerprint, so only
	// blink.vhdp is analyzed again.
	writeSource(t, dir, "blink.vhdp", "Component Blink (LED : OUT STD_LOGIC;){ Signal s : STD_LOGIC; }")
	third := runForTest(t, cfg, dir)
	for _, f := range third.Files {
		if f.Cached != (f.Path == top) {
			t.Fatalf("unexpected cache state for %s: %v", f.Path, f.Cached)
		}
	}

	cacheDir, err := ClearCache(dir, cfg)
	if err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed", cacheDir)
	}
}

func TestRunTimingJSONL(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "blink.vhdp", blinkSource)
	timingPath := filepath.Join(t.TempDir(), "timing.jsonl")

	runner := New(testConfig(t, `{"analysis":{"cache":{"enabled":false}}}`), nil)
	runner.TimingPath = timingPath
	result, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw, err := os.ReadFile(timingPath)
	if err != nil {
		t.Fatalf("read timing file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != len(result.Timing) {
		t.Fatalf("expected %d events in file, got %d", len(result.Timing), len(lines))
	}

	stages := map[string]bool{}
	for _, ev := range result.Timing {
		if ev.Kind == "stage" {
			stages[ev.Stage] = true
		}
	}
	for _, s := range []string{"scan", "index", "analyze", "facts", "policy", "total"} {
		if !stages[s] {
			t.Fatalf("missing %s stage in %+v", s, result.Timing)
		}
	}
}

func TestRunMathRealOption(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "top.vhdp", "Main (){}")

	result := runForTest(t, testConfig(t, `{"analysis":{"mathReal":true,"cache":{"enabled":false}}}`), dir)
	var found bool
	for _, inc := range result.Tables.Includes {
		if inc.File == file && inc.Item == "ieee.math_real.all" && inc.Resolved {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected math_real include, got %+v", result.Tables.Includes)
	}
}
