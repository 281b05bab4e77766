// Package passthrough reads plain VHDL files far enough to let VHDP code
// instantiate the entities they declare.
package passthrough

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// Extractor pulls entity interfaces out of VHDL sources. With a tree-sitter
// grammar set it walks the syntax tree, otherwise it falls back to patterns.
// It is safe for concurrent use; each call gets its own parser.
type Extractor struct {
	lang *sitter.Language
}

// FileFacts contains everything extracted from one VHDL file.
type FileFacts struct {
	File          string
	Entities      []Entity
	Architectures []Architecture
	Packages      []Package
	Instances     []Instance
	Uses          []Use
}

// Entity is an entity declaration with its port clause.
type Entity struct {
	Name   string
	Line   int
	Offset int
	Ports  []Port
}

type Architecture struct {
	Name       string
	EntityName string
	Line       int
}

type Package struct {
	Name string
	Line int
}

// Instance is a component or direct entity instantiation. Target drops
// any library prefix.
type Instance struct {
	Label  string
	Target string
	Line   int
}

// Use is a use or library clause.
type Use struct {
	Target string
	Kind   string // "use", "library"
	Line   int
}

type Port struct {
	Name      string
	Direction string // in, out, inout, buffer
	Type      string
	Line      int
}

// New creates an Extractor without a grammar.
func New() *Extractor {
	return &Extractor{}
}

// SetLanguage installs a tree-sitter VHDL grammar.
func (e *Extractor) SetLanguage(lang *sitter.Language) {
	e.lang = lang
}

// ExtractFile reads and extracts path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (FileFacts, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileFacts{File: path}, fmt.Errorf("reading file: %w", err)
	}
	return e.Extract(ctx, path, content)
}

// Extract parses already decoded content.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (FileFacts, error) {
	if e.lang == nil {
		return extractSimple(path, string(content)), nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return FileFacts{File: path}, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	facts := FileFacts{File: path}
	walkTree(tree.RootNode(), content, &facts)
	return facts, nil
}

// Context turns the extracted entities into an analyzer context that a
// project context can merge like any VHDP file.
func (f FileFacts) Context(text string) *analyzer.Context {
	c := analyzer.NewForeignContext(f.File, text)
	for _, ent := range f.Entities {
		ports := make([]analyzer.ExternalPort, 0, len(ent.Ports))
		for _, p := range ent.Ports {
			dir, _ := types.ParseDirection(p.Direction)
			ports = append(ports, analyzer.ExternalPort{
				Name:      p.Name,
				Direction: dir,
				Type:      TypeName(p.Type),
			})
		}
		c.AddExternalComponent(ent.Name, ent.Offset, ports)
	}
	return c
}

// TypeName reduces a subtype indication to its type mark:
// "std_logic_vector(7 downto 0)" becomes "std_logic_vector".
func TypeName(indication string) string {
	name := strings.TrimSpace(indication)
	if i := strings.IndexAny(name, "( \t\n"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func walkTree(node *sitter.Node, source []byte, facts *FileFacts) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "entity_declaration":
		facts.Entities = append(facts.Entities, extractEntity(node, source))

	case "architecture_body":
		arch := Architecture{Line: line(node)}
		if n := node.ChildByFieldName("name"); n != nil {
			arch.Name = n.Content(source)
		}
		if n := node.ChildByFieldName("entity"); n != nil {
			arch.EntityName = n.Content(source)
		}
		facts.Architectures = append(facts.Architectures, arch)

	case "package_declaration":
		pkg := Package{Line: line(node)}
		if n := node.ChildByFieldName("name"); n != nil {
			pkg.Name = n.Content(source)
		}
		facts.Packages = append(facts.Packages, pkg)

	case "use_clause", "library_clause":
		kind := "use"
		if node.Type() == "library_clause" {
			kind = "library"
		}
		target := strings.TrimSpace(strings.TrimSuffix(node.Content(source), ";"))
		target = strings.TrimSpace(target[len(kind):])
		facts.Uses = append(facts.Uses, Use{Target: target, Kind: kind, Line: line(node)})

	case "component_instantiation_statement", "component_instantiation":
		inst := Instance{Line: line(node)}
		if n := node.ChildByFieldName("label"); n != nil {
			inst.Label = n.Content(source)
		}
		if n := node.ChildByFieldName("component"); n != nil {
			inst.Target = TypeName(strings.TrimPrefix(strings.ToLower(n.Content(source)), "entity "))
		}
		facts.Instances = append(facts.Instances, inst)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(i), source, facts)
	}
}

func extractEntity(node *sitter.Node, source []byte) Entity {
	ent := Entity{Line: line(node), Offset: int(node.StartByte())}
	if n := node.ChildByFieldName("name"); n != nil {
		ent.Name = n.Content(source)
	}
	collectPorts(node, source, &ent)
	return ent
}

// collectPorts gathers interface declarations below a port clause. Generic
// clauses are skipped.
func collectPorts(node *sitter.Node, source []byte, ent *Entity) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch {
		case strings.HasPrefix(child.Type(), "generic"):
			continue
		case strings.HasSuffix(child.Type(), "interface_declaration"):
			ent.Ports = append(ent.Ports, interfacePorts(child, source)...)
			continue
		}
		collectPorts(child, source, ent)
	}
}

func interfacePorts(node *sitter.Node, source []byte) []Port {
	var names []string
	var dir, typ string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier_list":
			for _, n := range strings.Split(child.Content(source), ",") {
				names = append(names, strings.TrimSpace(n))
			}
		case "identifier":
			names = append(names, child.Content(source))
		case "mode":
			dir = strings.ToLower(child.Content(source))
		case "subtype_indication":
			typ = child.Content(source)
		}
	}
	ports := make([]Port, 0, len(names))
	for _, n := range names {
		ports = append(ports, Port{Name: n, Direction: dir, Type: typ, Line: line(node)})
	}
	return ports
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
