package facts

import "strconv"

// Delta captures added and removed fact rows between two snapshots.
type Delta struct {
	Added   Tables `json:"added"`
	Removed Tables `json:"removed"`
}

// ComputeDelta computes row-level additions and removals between two snapshots.
func ComputeDelta(prev, next Tables) Delta {
	return Delta{
		Added:   diffTables(prev, next),
		Removed: diffTables(next, prev),
	}
}

// Empty reports whether the delta has no rows.
func (d Delta) Empty() bool {
	return d.Added.Len() == 0 && d.Removed.Len() == 0
}

// Len is the total number of rows over all relations.
func (t Tables) Len() int {
	return len(t.Files) + len(t.Components) + len(t.Packages) + len(t.Ports) +
		len(t.Signals) + len(t.Variables) + len(t.Instances) + len(t.Dependencies) +
		len(t.Includes) + len(t.Processes) + len(t.Types) + len(t.Functions) +
		len(t.SeqFunctions) + len(t.Diagnostics)
}

func diffTables(from, to Tables) Tables {
	out := emptyTables()

	out.Files = diffRows(from.Files, to.Files, func(r FileRow) string {
		return key(r.Path, r.Library, r.Language, boolKey(r.IsThirdParty))
	})
	out.Components = diffRows(from.Components, to.Components, func(r ComponentRow) string {
		return key(r.Name, r.Kind, r.File, strconv.Itoa(r.Line))
	})
	out.Packages = diffRows(from.Packages, to.Packages, func(r PackageRow) string {
		return key(r.Name, r.File, strconv.Itoa(r.Line))
	})
	out.Ports = diffRows(from.Ports, to.Ports, func(r PortRow) string {
		return key(r.Component, r.Name, r.Direction, r.Type, r.File, strconv.Itoa(r.Line))
	})
	out.Signals = diffRows(from.Signals, to.Signals, func(r SignalRow) string {
		return key(r.Name, r.Type, r.File, strconv.Itoa(r.Line), r.Scope)
	})
	out.Variables = diffRows(from.Variables, to.Variables, func(r VariableRow) string {
		return key(r.Name, r.Kind, r.Type, r.File, strconv.Itoa(r.Line), r.Scope)
	})
	out.Instances = diffRows(from.Instances, to.Instances, func(r InstanceRow) string {
		return key(r.Target, r.Kind, r.File, strconv.Itoa(r.Line), r.InComponent)
	})
	out.Dependencies = diffRows(from.Dependencies, to.Dependencies, func(r DependencyRow) string {
		return key(r.File, r.Target, r.TargetFile, r.Kind)
	})
	out.Includes = diffRows(from.Includes, to.Includes, func(r IncludeRow) string {
		return key(r.File, r.Item, boolKey(r.Resolved))
	})
	out.Processes = diffRows(from.Processes, to.Processes, func(r ProcessRow) string {
		return key(r.Kind, r.File, strconv.Itoa(r.Line), r.InComponent)
	})
	out.Types = diffRows(from.Types, to.Types, func(r TypeRow) string {
		return key(r.Name, r.Kind, r.File)
	})
	out.Functions = diffRows(from.Functions, to.Functions, func(r FunctionRow) string {
		return key(r.Name, r.ReturnType, strconv.Itoa(r.Params), r.File, strconv.Itoa(r.Line))
	})
	out.SeqFunctions = diffRows(from.SeqFunctions, to.SeqFunctions, func(r SeqFunctionRow) string {
		return key(r.Name, strconv.Itoa(r.Params), strconv.Itoa(r.Exposing), r.File, strconv.Itoa(r.Line))
	})
	out.Diagnostics = diffRows(from.Diagnostics, to.Diagnostics, func(r DiagnosticRow) string {
		return key(r.File, strconv.Itoa(r.Line), strconv.Itoa(r.Col), r.Severity, r.Rule, r.Message)
	})

	return out
}

func key(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, '|')
		}
		b = append(b, p...)
	}
	return string(b)
}

func emptyTables() Tables {
	return Tables{
		Files:        []FileRow{},
		Components:   []ComponentRow{},
		Packages:     []PackageRow{},
		Ports:        []PortRow{},
		Signals:      []SignalRow{},
		Variables:    []VariableRow{},
		Instances:    []InstanceRow{},
		Dependencies: []DependencyRow{},
		Includes:     []IncludeRow{},
		Processes:    []ProcessRow{},
		Types:        []TypeRow{},
		Functions:    []FunctionRow{},
		SeqFunctions: []SeqFunctionRow{},
		Diagnostics:  []DiagnosticRow{},
	}
}
