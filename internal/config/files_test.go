package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLibrariesWithExplicitFiles(t *testing.T) {
	root := t.TempDir()
	rtlDir := filepath.Join(root, "rtl")
	simDir := filepath.Join(root, "sim")
	if err := os.MkdirAll(rtlDir, 0o755); err != nil {
		t.Fatalf("mkdir rtl: %v", err)
	}
	if err := os.MkdirAll(simDir, 0o755); err != nil {
		t.Fatalf("mkdir sim: %v", err)
	}

	blink := filepath.Join(rtlDir, "blink.vhdp")
	tb := filepath.Join(simDir, "tb_blink.vhd")
	if err := os.WriteFile(blink, []byte("Main (){}"), 0o644); err != nil {
		t.Fatalf("write blink: %v", err)
	}
	if err := os.WriteFile(tb, []byte("-- tb"), 0o644); err != nil {
		t.Fatalf("write tb: %v", err)
	}

	cfg := Config{
		Libraries: map[string]LibraryConfig{
			"work": {Files: []string{"rtl/*.vhdp"}},
		},
		Files: []FileEntry{
			{File: "sim/tb_blink.vhd", Library: "sim", Language: "vhdl"},
			{File: "sim/skip.sv", Library: "sim", Language: "verilog"},
			{File: "sim/missing.vhd", Library: "sim"},
		},
	}

	libs, err := cfg.ResolveLibraries(root)
	if err != nil {
		t.Fatalf("ResolveLibraries: %v", err)
	}

	workFiles := findLibFiles(t, libs, "work")
	if !containsPath(workFiles, blink) {
		t.Fatalf("expected work lib to include %s, got %v", blink, workFiles)
	}

	simFiles := findLibFiles(t, libs, "sim")
	if !containsPath(simFiles, tb) {
		t.Fatalf("expected sim lib to include %s, got %v", tb, simFiles)
	}
	if len(simFiles) != 1 {
		t.Fatalf("expected only existing vhdl entries in sim, got %v", simFiles)
	}
}

func TestGetFileLibraryWithExplicitFiles(t *testing.T) {
	root := t.TempDir()
	simDir := filepath.Join(root, "sim")
	if err := os.MkdirAll(simDir, 0o755); err != nil {
		t.Fatalf("mkdir sim: %v", err)
	}
	tb := filepath.Join(simDir, "tb_blink.vhd")
	if err := os.WriteFile(tb, []byte("-- tb"), 0o644); err != nil {
		t.Fatalf("write tb: %v", err)
	}

	cfg := Config{
		Files: []FileEntry{
			{File: "sim/tb_blink.vhd", Library: "sim", Language: "vhdl", IsThirdParty: true},
		},
	}

	info := cfg.GetFileLibrary(tb, root)
	if info.LibraryName != "sim" {
		t.Fatalf("expected library sim, got %q", info.LibraryName)
	}
	if !info.IsThirdParty {
		t.Fatalf("expected IsThirdParty true")
	}
}

func findLibFiles(t *testing.T, libs []ResolvedLibrary, name string) []string {
	t.Helper()
	for _, lib := range libs {
		if lib.Name == name {
			return lib.Files
		}
	}
	t.Fatalf("library %s not found", name)
	return nil
}

func containsPath(files []string, target string) bool {
	for _, f := range files {
		if filepath.Clean(f) == filepath.Clean(target) {
			return true
		}
	}
	return false
}

func TestGetAllFilesFiltersLanguagesAndIgnores(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"top.vhdp", "lib/uart.vhd", "lib/gen.ghdp", "notes.txt", "build/out.vhdp"} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Lint.IgnorePatterns = []string{filepath.Join(root, "build", "*")}

	files, err := cfg.GetAllFiles(root)
	if err != nil {
		t.Fatalf("GetAllFiles: %v", err)
	}
	want := []string{
		filepath.Join(root, "lib", "gen.ghdp"),
		filepath.Join(root, "lib", "uart.vhd"),
		filepath.Join(root, "top.vhdp"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, files)
		}
	}
}

func TestLanguageOf(t *testing.T) {
	tests := map[string]string{
		"a.vhdp":   LanguageVHDP,
		"a.GHDP":   LanguageVHDP,
		"a.vhd":    LanguageVHDL,
		"a.vhdl":   LanguageVHDL,
		"a.sv":     "",
		"Makefile": "",
	}
	for path, want := range tests {
		if got := LanguageOf(path); got != want {
			t.Fatalf("LanguageOf(%q) = %q, want %q", path, got, want)
		}
	}
}
