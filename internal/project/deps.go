package project

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/facts"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/passthrough"
)

// dependentsGraph maps a file to the files that use something it defines.
type dependentsGraph map[string]map[string]bool

// resolveDependencies links instances and includes to the file defining
// their target. Targets defined in the using file itself are skipped.
func resolveDependencies(tables facts.Tables, vhdl map[string]passthrough.FileFacts) []facts.DependencyRow {
	defined := make(map[string]string)
	define := func(kind, name, file string) {
		key := kind + ":" + strings.ToLower(name)
		if _, ok := defined[key]; !ok {
			defined[key] = file
		}
	}
	for _, c := range tables.Components {
		define("component", c.Name, c.File)
	}
	for _, f := range tables.SeqFunctions {
		define("seqfunction", f.Name, f.File)
	}
	for _, p := range tables.Packages {
		define("package", p.Name, p.File)
	}

	seen := make(map[string]bool)
	var deps []facts.DependencyRow
	add := func(file, target, kind string) {
		targetFile, ok := defined[kind+":"+strings.ToLower(target)]
		if !ok || targetFile == file {
			return
		}
		key := file + "\x00" + kind + "\x00" + strings.ToLower(target)
		if seen[key] {
			return
		}
		seen[key] = true
		deps = append(deps, facts.DependencyRow{File: file, Target: target, TargetFile: targetFile, Kind: kind})
	}

	for _, inst := range tables.Instances {
		add(inst.File, inst.Target, inst.Kind)
	}
	for _, inc := range tables.Includes {
		if inc.Resolved {
			continue
		}
		for _, part := range strings.Split(inc.Item, ".") {
			add(inc.File, part, "package")
		}
	}

	files := make([]string, 0, len(vhdl))
	for f := range vhdl {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, inst := range vhdl[f].Instances {
			add(f, inst.Target, "component")
		}
	}

	sort.SliceStable(deps, func(i, j int) bool { return deps[i].File < deps[j].File })
	return deps
}

func buildDependentsGraph(deps []facts.DependencyRow) dependentsGraph {
	graph := make(dependentsGraph)
	for _, d := range deps {
		if graph[d.TargetFile] == nil {
			graph[d.TargetFile] = make(map[string]bool)
		}
		graph[d.TargetFile][d.File] = true
	}
	return graph
}

// ImpactReport lists the files affected by a change to Root, grouped by
// distance.
type ImpactReport struct {
	Root   string     `json:"root"`
	Levels [][]string `json:"levels"`
}

func computeImpact(root string, dependents dependentsGraph) ImpactReport {
	visited := map[string]bool{root: true}
	frontier := []string{root}
	var levels [][]string

	for len(frontier) > 0 {
		var next []string
		for _, f := range frontier {
			for dep := range dependents[f] {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				next = append(next, dep)
			}
		}
		if len(next) == 0 {
			break
		}
		sort.Strings(next)
		levels = append(levels, next)
		frontier = next
	}

	return ImpactReport{Root: root, Levels: levels}
}

func (r ImpactReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s\n", r.Root)
	for i, level := range r.Levels {
		fmt.Fprintf(&b, "    level %d (%d): %s\n", i+1, len(level), strings.Join(level, ", "))
	}
	return b.String()
}
