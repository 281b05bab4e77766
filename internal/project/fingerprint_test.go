package project

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
)

func fingerprintOf(lib string) string {
	a := analyzer.Analyze("lib.vhdp", lib, analyzer.Resolve, nil)
	b := analyzer.Analyze("top.vhdp", "Main (){NewComponent A (LED => x);}", analyzer.Resolve, nil)
	return fingerprint([]*analyzer.Context{b, a}, false)
}

func TestFingerprintIgnoresBodies(t *testing.T) {
	base := fingerprintOf("Component A (LED : OUT STD_LOGIC;){}")
	body := fingerprintOf("Component A (LED : OUT STD_LOGIC;){ Signal s : STD_LOGIC; }")
	if base != body {
		t.Fatalf("body edit changed fingerprint: %s vs %s", base, body)
	}
}

func TestFingerprintTracksInterfaces(t *testing.T) {
	base := fingerprintOf("Component A (LED : OUT STD_LOGIC;){}")
	tests := map[string]string{
		"direction": "Component A (LED : IN STD_LOGIC;){}",
		"port":      "Component A (LED : OUT STD_LOGIC; BTN : IN STD_LOGIC;){}",
		"name":      "Component B (LED : OUT STD_LOGIC;){}",
	}
	for name, lib := range tests {
		if fingerprintOf(lib) == base {
			t.Errorf("%s change kept fingerprint %s", name, base)
		}
	}

	a := analyzer.Analyze("lib.vhdp", "Component A (LED : OUT STD_LOGIC;){}", analyzer.Resolve, nil)
	if fingerprint([]*analyzer.Context{a}, false) == fingerprint([]*analyzer.Context{a}, true) {
		t.Fatalf("expected mathReal to change the fingerprint")
	}
}
