package validator

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/config"
)

// TestConfigContract checks the configuration schema against configurations
// as the loader produces them.
func TestConfigContract(t *testing.T) {
	v, err := NewConfigValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name:    "defaults",
			json:    `{}`,
			wantErr: false,
		},
		{
			name:    "rule severities",
			json:    `{"lint": {"rules": {"undefined-type": "off", "multiple-drivers": "warning"}}}`,
			wantErr: false,
		},
		{
			name:    "invalid severity",
			json:    `{"lint": {"rules": {"undefined-type": "loud"}}}`,
			wantErr: true,
		},
		{
			name:    "negative parallelism",
			json:    `{"analysis": {"maxParallelFiles": -1}}`,
			wantErr: true,
		},
		{
			name:    "unknown output format",
			json:    `{"output": {"format": "xml"}}`,
			wantErr: true,
		},
		{
			name:    "explicit files",
			json:    `{"files": [{"file": "ip/uart.vhd", "library": "ip", "isThirdParty": true}]}`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.json))
			if err != nil {
				t.Fatalf("config.Parse: %v", err)
			}
			err = v.Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	v, err := NewConfigValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	if err := v.Validate(config.DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestOutputContract(t *testing.T) {
	v, err := NewOutputValidator()
	if err != nil {
		t.Fatalf("Failed to create output validator: %v", err)
	}

	valid := []byte(`{
		"files": 1, "errors": 1, "warnings": 0, "hints": 0,
		"diagnostics": [{
			"file": "top.vhdp", "line": 3, "col": 5, "endLine": 3, "endCol": 6,
			"severity": "error", "rule": "undefined-variable",
			"message": "Undefined Variable b", "phase": "check"
		}]
	}`)
	if err := v.ValidateJSON(valid); err != nil {
		t.Fatalf("expected valid output, got %v", err)
	}

	zeroLine := []byte(`{
		"files": 1, "errors": 1, "warnings": 0, "hints": 0,
		"diagnostics": [{
			"file": "top.vhdp", "line": 0, "col": 5, "endLine": 3, "endCol": 6,
			"severity": "error", "rule": "undefined-variable",
			"message": "Undefined Variable b", "phase": "check"
		}]
	}`)
	if err := v.ValidateJSON(zeroLine); err == nil {
		t.Fatalf("expected 0-based line to be rejected")
	}

	extraField := []byte(`{"files": 0, "errors": 0, "warnings": 0, "hints": 0, "diagnostics": [], "extra": true}`)
	if err := v.ValidateJSON(extraField); err == nil {
		t.Fatalf("expected closed definition to reject unknown field")
	}
}
