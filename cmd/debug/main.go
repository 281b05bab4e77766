package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/passthrough"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: debug <file.vhdp|file.vhd> [line[:col]]")
		os.Exit(1)
	}
	path := os.Args[1]
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var c *analyzer.Context
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vhd", ".vhdl":
		ff, err := passthrough.New().Extract(context.Background(), path, content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, ent := range ff.Entities {
			fmt.Printf("entity %s (line %d)\n", ent.Name, ent.Line)
			for _, p := range ent.Ports {
				fmt.Printf("  port %s : %s %s -> %s\n", p.Name, p.Direction, p.Type, passthrough.TypeName(p.Type))
			}
		}
		for _, inst := range ff.Instances {
			fmt.Printf("instance %s of %s (line %d)\n", inst.Label, inst.Target, inst.Line)
		}
		c = ff.Context(string(content))
	default:
		c = analyzer.Analyze(path, string(content), analyzer.Full, nil)
	}

	fmt.Println("segments:")
	for _, s := range c.TopLevels() {
		dump(s, 1, "")
	}

	fmt.Println("diagnostics:")
	for _, d := range c.Diagnostics() {
		fmt.Printf("  [%s] %s\n", d.Phase, d)
	}

	if len(os.Args) > 2 {
		line, col := parseLocation(os.Args[2])
		at := c.Offset(line-1, col-1)
		if at < 0 {
			fmt.Fprintf(os.Stderr, "line %d is outside the file\n", line)
			os.Exit(1)
		}
		fmt.Printf("at %d:%d (block depth %d):\n", line, col, c.BlockDepthAt(line-1))
		s := analyzer.SegmentAt(c, at)
		if s == nil {
			fmt.Println("  no segment")
			return
		}
		fmt.Printf("  segment %s %q type=%s depth=%d\n", s.Kind, s.Name, s.Type, analyzer.BlockDepth(s))
		for _, v := range c.VisibleVariables(s) {
			fmt.Printf("  visible %s\n", v)
		}
	}
}

func dump(s *analyzer.Segment, depth int, prefix string) {
	indent := strings.Repeat("  ", depth)
	op := ""
	if s.ConcatOp != "" {
		op = " op=" + strconv.Quote(s.ConcatOp)
	}
	line := s.Context().Position(s.Offset).Line + 1
	fmt.Printf("%s%s%s %q type=%s line=%d%s\n", indent, prefix, s.Kind, s.Name, s.Type, line, op)
	for i, group := range s.Params {
		for _, p := range group {
			dump(p, depth+1, fmt.Sprintf("param[%d] ", i))
		}
	}
	for _, child := range s.Children {
		dump(child, depth+1, "")
	}
}

func parseLocation(arg string) (line, col int) {
	l, c, _ := strings.Cut(arg, ":")
	line, _ = strconv.Atoi(l)
	col = 1
	if c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			col = n
		}
	}
	if line < 1 {
		line = 1
	}
	return line, col
}
