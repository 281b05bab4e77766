package validator

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/facts"
)

func TestFactsValidatorAcceptsBuiltTables(t *testing.T) {
	v, err := NewFactsValidator()
	if err != nil {
		t.Fatalf("new facts validator: %v", err)
	}

	text := "Component Blink (LED : OUT STD_LOGIC;){Signal s : STD_LOGIC; Process(){LED <= s;}}"
	ctx := analyzer.Analyze("blink.vhdp", text, analyzer.Full, nil)
	tables := facts.BuildTables([]facts.Source{{
		Path:     "blink.vhdp",
		Library:  "work",
		Language: "vhdp",
		Context:  ctx,
	}}, nil)

	if err := v.Validate(tables); err != nil {
		t.Fatalf("expected built tables to validate, got %v", err)
	}
}

func TestFactsValidatorRejectsUnknownKind(t *testing.T) {
	v, err := NewFactsValidator()
	if err != nil {
		t.Fatalf("new facts validator: %v", err)
	}

	tables := facts.BuildTables([]facts.Source{{Path: "a.vhdp", Language: "vhdp"}}, nil)
	tables.Components = append(tables.Components, facts.ComponentRow{
		Name: "a",
		Kind: "architecture",
		File: "a.vhdp",
		Line: 1,
	})

	if err := v.Validate(tables); err == nil {
		t.Fatalf("expected invalid component kind to fail validation")
	}
}

func TestFactsValidatorRejectsNullRelation(t *testing.T) {
	v, err := NewFactsValidator()
	if err != nil {
		t.Fatalf("new facts validator: %v", err)
	}

	tables := facts.BuildTables(nil, nil)
	tables.Ports = nil

	errs := v.ValidationErrors(tables)
	if len(errs) == 0 {
		t.Fatalf("expected a null relation to be reported")
	}
}
