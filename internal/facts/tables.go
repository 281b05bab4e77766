package facts

import (
	"sort"
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// Tables is the relational fact model handed to policies.
// Each slice is a relation (table) with flat rows.
type Tables struct {
	Files        []FileRow        `json:"files"`
	Components   []ComponentRow   `json:"components"`
	Packages     []PackageRow     `json:"packages"`
	Ports        []PortRow        `json:"ports"`
	Signals      []SignalRow      `json:"signals"`
	Variables    []VariableRow    `json:"variables"`
	Instances    []InstanceRow    `json:"instances"`
	Dependencies []DependencyRow  `json:"dependencies"`
	Includes     []IncludeRow     `json:"includes"`
	Processes    []ProcessRow     `json:"processes"`
	Types        []TypeRow        `json:"types"`
	Functions    []FunctionRow    `json:"functions"`
	SeqFunctions []SeqFunctionRow `json:"seq_functions"`
	Diagnostics  []DiagnosticRow  `json:"diagnostics"`
}

type FileRow struct {
	Path         string `json:"path"`
	Library      string `json:"library"`
	Language     string `json:"language"`
	IsThirdParty bool   `json:"is_third_party"`
}

// ComponentRow is a Component, a Main block (named after its file) or a
// VHDL entity seen through the passthrough extractor.
type ComponentRow struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
	Line int    `json:"line"`
}

type PackageRow struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

type PortRow struct {
	Component string `json:"component"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Type      string `json:"type"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

type SignalRow struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	File  string `json:"file"`
	Line  int    `json:"line"`
	Scope string `json:"scope"`
}

// VariableRow covers variables, constants, generics and iterators.
type VariableRow struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Type  string `json:"type"`
	File  string `json:"file"`
	Line  int    `json:"line"`
	Scope string `json:"scope"`
}

type InstanceRow struct {
	Target      string `json:"target"`
	Kind        string `json:"kind"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	InComponent string `json:"in_component"`
}

type DependencyRow struct {
	File       string `json:"file"`
	Target     string `json:"target"`
	TargetFile string `json:"target_file"`
	Kind       string `json:"kind"`
}

type IncludeRow struct {
	File     string `json:"file"`
	Item     string `json:"item"`
	Resolved bool   `json:"resolved"`
}

type ProcessRow struct {
	Kind        string `json:"kind"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	InComponent string `json:"in_component"`
}

type TypeRow struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
}

type FunctionRow struct {
	Name       string `json:"name"`
	ReturnType string `json:"return_type"`
	Params     int    `json:"params"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type SeqFunctionRow struct {
	Name     string `json:"name"`
	Params   int    `json:"params"`
	Exposing int    `json:"exposing"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

type DiagnosticRow struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
}

// Source is one analyzed file and the metadata configuration attaches to it.
type Source struct {
	Path         string
	Library      string
	Language     string
	IsThirdParty bool
	Context      *analyzer.Context
	Diagnostics  []DiagnosticRow
}

// BuildTables converts analyzed files into the relational model. Rows are
// emitted in a deterministic order: files sorted by path, segments in
// source order and symbol tables sorted by name.
func BuildTables(sources []Source, deps []DependencyRow) Tables {
	tables := emptyTables()

	sorted := append([]Source(nil), sources...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, src := range sorted {
		tables.Files = append(tables.Files, FileRow{
			Path:         src.Path,
			Library:      src.Library,
			Language:     src.Language,
			IsThirdParty: src.IsThirdParty,
		})
		tables.Diagnostics = append(tables.Diagnostics, src.Diagnostics...)
		if src.Context != nil {
			addContext(&tables, src)
		}
	}
	tables.Dependencies = append(tables.Dependencies, deps...)
	return tables
}

func addContext(t *Tables, src Source) {
	c := src.Context
	line := func(offset int) int { return c.Position(offset).Line + 1 }

	for _, s := range c.TopLevels() {
		switch s.Kind {
		case analyzer.Component, analyzer.Main:
			kind := "component"
			if s.Kind == analyzer.Main {
				kind = "main"
			} else if src.Language == "vhdl" {
				kind = "external"
			}
			name := s.LastName()
			t.Components = append(t.Components, ComponentRow{Name: name, Kind: kind, File: src.Path, Line: line(s.Offset)})
			for _, v := range sortedVars(s.Vars) {
				if v.Kind != types.KindIo {
					continue
				}
				t.Ports = append(t.Ports, PortRow{
					Component: name,
					Name:      v.Name,
					Direction: strings.ToLower(v.Direction.String()),
					Type:      v.Type.String(),
					File:      src.Path,
					Line:      line(v.Offset),
				})
			}
		case analyzer.Package:
			t.Packages = append(t.Packages, PackageRow{Name: s.LastName(), File: src.Path, Line: line(s.Offset)})
		}
	}

	addDeclarations(t, src.Path, c.Top, line)

	c.Walk(func(parent, child *analyzer.Segment, param, thread bool) {
		switch child.Kind {
		case analyzer.NewComponent, analyzer.NewFunction:
			kind := "component"
			if child.Kind == analyzer.NewFunction {
				kind = "seqfunction"
			}
			t.Instances = append(t.Instances, InstanceRow{
				Target:      child.LastName(),
				Kind:        kind,
				File:        src.Path,
				Line:        line(child.Offset),
				InComponent: enclosingComponent(child),
			})
		case analyzer.Process, analyzer.Thread, analyzer.Generate:
			t.Processes = append(t.Processes, ProcessRow{
				Kind:        strings.ToLower(child.Kind.String()),
				File:        src.Path,
				Line:        line(child.Offset),
				InComponent: enclosingComponent(child),
			})
		case analyzer.Function:
			if f := c.DeclaredFunction(child); f != nil {
				t.Functions = append(t.Functions, FunctionRow{
					Name:       f.Name,
					ReturnType: f.Return.String(),
					Params:     len(f.Params),
					File:       src.Path,
					Line:       line(child.Offset),
				})
			}
		}
	})

	for _, inc := range c.Includes {
		_, ok := types.LookupPackage(inc)
		t.Includes = append(t.Includes, IncludeRow{File: src.Path, Item: inc, Resolved: ok})
	}

	local := c.LocalTypes()
	for _, name := range sortedKeys(local) {
		t.Types = append(t.Types, TypeRow{Name: local[name].Name, Kind: local[name].Class.String(), File: src.Path})
	}

	seqs := c.LocalSeqFunctions()
	for _, name := range sortedKeys(seqs) {
		sf := seqs[name]
		t.SeqFunctions = append(t.SeqFunctions, SeqFunctionRow{
			Name:     sf.Name,
			Params:   len(sf.Params),
			Exposing: len(sf.Exposing()),
			File:     src.Path,
			Line:     line(sf.Owner.Offset),
		})
	}
}

// addDeclarations records signals and variables scope by scope. Ports are
// reported separately.
func addDeclarations(t *Tables, file string, s *analyzer.Segment, line func(int) int) {
	scope := s.LastName()
	for _, v := range sortedVars(s.Vars) {
		switch v.Kind {
		case types.KindIo, types.KindRecordMember:
		case types.KindSignal:
			t.Signals = append(t.Signals, SignalRow{Name: v.Name, Type: v.Type.String(), File: file, Line: line(v.Offset), Scope: scope})
		default:
			t.Variables = append(t.Variables, VariableRow{
				Name:  v.Name,
				Kind:  strings.ToLower(v.Kind.String()),
				Type:  v.Type.String(),
				File:  file,
				Line:  line(v.Offset),
				Scope: scope,
			})
		}
	}
	for _, child := range s.Children {
		addDeclarations(t, file, child, line)
	}
}

func enclosingComponent(s *analyzer.Segment) string {
	for ; s != nil; s = s.Parent {
		if s.Kind == analyzer.Component || s.Kind == analyzer.Main {
			return s.LastName()
		}
	}
	return ""
}

func sortedVars(vars map[string]*types.Variable) []*types.Variable {
	out := make([]*types.Variable, 0, len(vars))
	for _, k := range sortedKeys(vars) {
		out = append(out, vars[k])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func diffRows[T any](from, to []T, key func(T) string) []T {
	fromSet := make(map[string]T, len(from))
	for _, row := range from {
		fromSet[key(row)] = row
	}
	var diff []T
	for _, row := range to {
		if _, ok := fromSet[key(row)]; !ok {
			diff = append(diff, row)
		}
	}
	if diff == nil {
		diff = []T{}
	}
	return diff
}

func boolKey(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
