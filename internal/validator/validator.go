package validator

// =============================================================================
// VALIDATOR PHILOSOPHY: CRASH EARLY, CRASH LOUD
// =============================================================================
//
// The CUE schemas are the contract between the Go side and everything that
// consumes its data: rego policies read the fact tables, editors and CI read
// the JSON output, and users write the configuration by hand.
//
// Without validation a renamed field reaches a policy as `undefined`, the
// rule never fires and the design looks clean. With validation the run stops
// with "field not allowed" or "conflicting values" and names the field.
//
// WHEN VALIDATION FAILS:
// 1. DON'T relax the schema to make the error go away
// 2. DO decide which side is wrong: the producer or the contract
// 3. DO fix it there and keep both in step
// =============================================================================

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed config_schema.cue output_schema.cue facts_schema.cue
var schemaFS embed.FS

// Validator checks values against one definition of an embedded schema.
type Validator struct {
	ctx  *cue.Context
	def  cue.Value
	name string
}

func load(file, definition string) (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema %s: %w", file, err)
	}

	schema := ctx.CompileBytes(schemaBytes, cue.Filename(file))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", file, schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return nil, fmt.Errorf("looking up %s definition: %w", definition, def.Err())
	}

	return &Validator{ctx: ctx, def: def, name: definition}, nil
}

// NewConfigValidator validates vhdp_lint.json contents against #Config.
func NewConfigValidator() (*Validator, error) {
	return load("config_schema.cue", "#Config")
}

// NewOutputValidator validates linter JSON output against #LintOutput.
func NewOutputValidator() (*Validator, error) {
	return load("output_schema.cue", "#LintOutput")
}

// NewFactsValidator validates relational fact tables against #FactTables.
func NewFactsValidator() (*Validator, error) {
	return load("facts_schema.cue", "#FactTables")
}

// Validate marshals data to JSON and checks it against the definition.
// Returns nil if valid, or a detailed error explaining what failed.
func (v *Validator) Validate(data any) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}
	return v.ValidateJSON(jsonBytes)
}

// ValidateJSON validates JSON bytes directly against the definition.
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	if err := v.unify(jsonBytes); err != nil {
		return fmt.Errorf("%s validation failed: %w", v.name, err)
	}
	return nil
}

// ValidationErrors returns one message per violated constraint.
func (v *Validator) ValidationErrors(data any) []string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}
	err = v.unify(jsonBytes)
	if err == nil {
		return nil
	}
	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}

func (v *Validator) unify(jsonBytes []byte) error {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return dataValue.Err()
	}
	return v.def.Unify(dataValue).Validate(cue.Concrete(true))
}
