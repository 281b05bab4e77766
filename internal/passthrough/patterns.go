package passthrough

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// entity <name> is
	entityPattern = regexp.MustCompile(`(?i)\bentity\s+(\w+)\s+is\b`)

	// architecture <name> of <entity> is
	archPattern = regexp.MustCompile(`(?i)\barchitecture\s+(\w+)\s+of\s+(\w+)\s+is\b`)

	// package <name> is, but not package body
	packagePattern = regexp.MustCompile(`(?i)\bpackage\s+(\w+)\s+is\b`)

	// use <library>.<package>.all
	usePattern = regexp.MustCompile(`(?i)\buse\s+([\w.]+)\s*;`)

	// library <name>
	libraryPattern = regexp.MustCompile(`(?i)^\s*library\s+(\w+)`)

	// <label> : entity <lib>.<entity>
	entityInstPattern = regexp.MustCompile(`(?i)^\s*(\w+)\s*:\s*entity\s+([\w.]+)`)

	// <label> : [component] <component> port map / generic map
	compInstPattern = regexp.MustCompile(`(?i)^\s*(\w+)\s*:\s*(?:component\s+)?(\w+)\s*(?:generic|port)\s+map\b`)

	portClausePattern = regexp.MustCompile(`(?i)\bport\s*\(`)
	endPattern        = regexp.MustCompile(`(?i)\bend\b`)

	// [signal] a, b : [in|out|inout|buffer] type [:= default]
	interfacePattern = regexp.MustCompile(`(?is)^\s*(?:signal\s+)?([\w\s,]+?)\s*:\s*(?:(in|out|inout|buffer|linkage)\s+)?(.+?)\s*(?::=.*)?$`)
)

// extractSimple scans text without a grammar. Comments are blanked first so
// that offsets stay valid.
func extractSimple(path, text string) FileFacts {
	facts := FileFacts{File: path}
	code := blankComments(text)
	lines := lineStarts(code)
	lineOf := func(offset int) int {
		return sort.Search(len(lines), func(i int) bool { return lines[i] > offset })
	}

	for _, m := range entityPattern.FindAllStringSubmatchIndex(code, -1) {
		ent := Entity{Name: code[m[2]:m[3]], Offset: m[0], Line: lineOf(m[0])}
		ent.Ports = portClause(code, m[1], lineOf)
		facts.Entities = append(facts.Entities, ent)
	}
	for _, m := range archPattern.FindAllStringSubmatchIndex(code, -1) {
		facts.Architectures = append(facts.Architectures, Architecture{
			Name:       code[m[2]:m[3]],
			EntityName: code[m[4]:m[5]],
			Line:       lineOf(m[0]),
		})
	}
	for _, m := range packagePattern.FindAllStringSubmatchIndex(code, -1) {
		if strings.EqualFold(code[m[2]:m[3]], "body") {
			continue
		}
		facts.Packages = append(facts.Packages, Package{Name: code[m[2]:m[3]], Line: lineOf(m[0])})
	}
	for _, m := range usePattern.FindAllStringSubmatchIndex(code, -1) {
		facts.Uses = append(facts.Uses, Use{Target: code[m[2]:m[3]], Kind: "use", Line: lineOf(m[0])})
	}

	for i, start := range lines {
		end := len(code)
		if i+1 < len(lines) {
			end = lines[i+1]
		}
		line := code[start:end]
		if m := matchLibrary(line); m != nil {
			facts.Uses = append(facts.Uses, Use{Target: m[0], Kind: "library", Line: i + 1})
		}
		if m := matchEntityInstantiation(line); m != nil {
			facts.Instances = append(facts.Instances, Instance{Label: m[0], Target: TypeName(m[1]), Line: i + 1})
		} else if m := matchComponentInstantiation(line); m != nil {
			facts.Instances = append(facts.Instances, Instance{Label: m[0], Target: m[1], Line: i + 1})
		}
	}
	return facts
}

// portClause parses the port list of the entity header starting at from.
func portClause(code string, from int, lineOf func(int) int) []Port {
	header := code[from:]
	if end := endPattern.FindStringIndex(header); end != nil {
		header = header[:end[0]]
	}
	loc := portClausePattern.FindStringIndex(header)
	if loc == nil {
		return nil
	}

	var ports []Port
	depth := 0
	start := loc[1]
	for i := loc[1]; i < len(header); i++ {
		switch header[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return append(ports, interfaceDecl(header[start:i], lineOf(from+start))...)
			}
			depth--
		case ';':
			if depth == 0 {
				ports = append(ports, interfaceDecl(header[start:i], lineOf(from+start))...)
				start = i + 1
			}
		}
	}
	return ports
}

func interfaceDecl(decl string, line int) []Port {
	m := interfacePattern.FindStringSubmatch(decl)
	if m == nil {
		return nil
	}
	// declarations usually start on the line after the previous separator
	if strings.HasPrefix(strings.TrimLeft(decl, " \t\r"), "\n") {
		line++
	}
	var ports []Port
	for _, name := range strings.Split(m[1], ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ports = append(ports, Port{
			Name:      name,
			Direction: strings.ToLower(m[2]),
			Type:      strings.Join(strings.Fields(m[3]), " "),
			Line:      line,
		})
	}
	return ports
}

// blankComments replaces "--" comments with spaces.
func blankComments(text string) string {
	b := []byte(text)
	inString := false
	for i := 0; i < len(b); i++ {
		switch {
		case b[i] == '"':
			inString = !inString
		case b[i] == '\n':
			inString = false
		case !inString && b[i] == '-' && i+1 < len(b) && b[i+1] == '-':
			for ; i < len(b) && b[i] != '\n'; i++ {
				b[i] = ' '
			}
			i--
		}
	}
	return string(b)
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// matchLibrary returns [name] if line is a library clause
func matchLibrary(line string) []string {
	if m := libraryPattern.FindStringSubmatch(line); m != nil {
		return []string{m[1]}
	}
	return nil
}

// matchEntityInstantiation returns [label, entity_ref] if line is a direct entity instantiation
func matchEntityInstantiation(line string) []string {
	if m := entityInstPattern.FindStringSubmatch(line); m != nil {
		return []string{m[1], m[2]}
	}
	return nil
}

// matchComponentInstantiation returns [label, component] if line is a component instantiation
func matchComponentInstantiation(line string) []string {
	if m := compInstPattern.FindStringSubmatch(line); m != nil {
		return []string{m[1], m[2]}
	}
	return nil
}
