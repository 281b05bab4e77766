package project

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/types"
)

// fingerprint hashes what one file can observe of the others: the
// components with their ports, types, seq-functions and exposed variables
// of every indexed file, plus the options that change analysis. Edits inside
// a body leave it unchanged.
func fingerprint(contexts []*analyzer.Context, mathReal bool) string {
	sorted := append([]*analyzer.Context(nil), contexts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := xxh3.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.WriteString("\x00")
		}
	}

	write(analyzerVersion, strconv.FormatBool(mathReal))
	for _, c := range sorted {
		write("file", c.Path)
		for _, s := range c.TopLevels() {
			if s.Kind != analyzer.Component && s.Kind != analyzer.Main && s.Kind != analyzer.Package {
				continue
			}
			write(s.Kind.String(), s.Name)
			for _, k := range sortedKeys(s.Vars) {
				if v := s.Vars[k]; v.Kind == types.KindIo {
					write(v.String())
				}
			}
		}

		local := c.LocalTypes()
		for _, k := range sortedKeys(local) {
			write("type", k, typeSignature(local[k]))
		}
		seqs := c.LocalSeqFunctions()
		for _, k := range sortedKeys(seqs) {
			write("seq", k, strconv.Itoa(len(seqs[k].Params)))
		}
		exposing := c.LocalExposing()
		for _, k := range sortedKeys(exposing) {
			write("expose", k, exposing[k].Type.String())
		}
		funcs := c.LocalFunctions()
		for _, k := range sortedKeys(funcs) {
			for _, f := range funcs[k] {
				write("func", f.String())
			}
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func typeSignature(t *types.DataType) string {
	parts := []string{t.Name, t.Class.String()}
	switch t.Class {
	case types.Record:
		names := t.FieldNames()
		sort.Strings(names)
		parts = append(parts, names...)
	case types.Enum:
		parts = append(parts, t.States...)
	case types.Array:
		parts = append(parts, t.Element.String())
	}
	return strings.Join(parts, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
