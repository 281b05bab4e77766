// Package project lints a whole VHDP project: every configured file is
// analyzed against the declarations of all the others, and the resulting
// fact tables are checked by the project-wide policies.
package project

// =============================================================================
// PIPELINE
// =============================================================================
//
//   scan     resolve libraries and ignore patterns into a sorted file list
//   index    parse every file on its own; VHDL goes through passthrough
//   analyze  re-analyze each VHDP file against the others (cached)
//   facts    build and validate the relational tables
//   policy   evaluate rego over the tables and merge the violations
//
// Indexed contexts are shared read-only between goroutines. The analyze
// stage always works on a fresh parse so nothing it resolves leaks into
// another file's project context.
// =============================================================================

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/config"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/facts"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/passthrough"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/policy"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/validator"
)

// Runner holds what stays fixed across runs.
type Runner struct {
	Config    *config.Config
	Log       *zap.Logger
	Extractor *passthrough.Extractor

	// TimingPath receives one JSON event per stage and file when set.
	TimingPath string
}

// New creates a Runner. A nil logger discards log output.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Config: cfg, Log: log, Extractor: passthrough.New()}
}

// FileResult describes one input file.
type FileResult struct {
	Path         string `json:"path"`
	Library      string `json:"library"`
	Language     string `json:"language"`
	IsThirdParty bool   `json:"is_third_party"`
	Cached       bool   `json:"cached"`
	Errors       int    `json:"errors"`
	Warnings     int    `json:"warnings"`
	Hints        int    `json:"hints"`

	// Err is set when the file could not be read or decoded.
	Err error `json:"-"`
}

type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Hints    int `json:"hints"`
}

// Result is everything one run produced.
type Result struct {
	Files       []FileResult
	Diagnostics []Diagnostic
	Tables      facts.Tables
	Policy      *policy.Result
	Summary     Summary
	Timing      []TimingEvent

	// Contexts holds the final analyzer context of every readable file.
	Contexts map[string]*analyzer.Context

	dependents dependentsGraph
}

// HasErrors reports whether any error-severity finding remains.
func (r *Result) HasErrors() bool { return r.Summary.Errors > 0 }

// Impact lists the files that directly or indirectly use what file defines.
func (r *Result) Impact(file string) ImpactReport {
	return computeImpact(file, r.dependents)
}

// Run lints the project rooted at root.
func (r *Runner) Run(ctx context.Context, root string) (*Result, error) {
	runStart := time.Now()
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	timing, err := newTimingRecorder(runStart, r.TimingPath)
	if err != nil {
		log.Warn("timing output disabled", zap.String("path", r.TimingPath), zap.Error(err))
	}
	defer func() { _ = timing.Close() }()

	cfg := r.Config
	if cfg == nil {
		if cfg, err = config.Load(root); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	// 1. Scan
	stepStart := time.Now()
	sources, err := scan(cfg, root)
	if err != nil {
		return nil, err
	}
	timing.Stage("scan", stepStart)
	log.Info("files resolved", zap.String("root", root), zap.Int("files", len(sources)))

	results := make([]FileResult, len(sources))
	for i, src := range sources {
		results[i] = FileResult{
			Path:         src.Path,
			Library:      src.Library,
			Language:     src.Language,
			IsThirdParty: src.IsThirdParty,
		}
	}

	// 2. Index: read, decode and parse every file on its own.
	stepStart = time.Now()
	indexed := make([]*analyzer.Context, len(sources))
	vhdl := make(map[string]passthrough.FileFacts)
	vhdlFacts := make([]*passthrough.FileFacts, len(sources))
	extractor := r.Extractor
	if extractor == nil {
		extractor = passthrough.New()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism(cfg))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			text, hash, err := readSource(src.Path)
			if err != nil {
				results[i].Err = err
				timing.File("index", src.Path, "error", start)
				log.Warn("skipping unreadable file", zap.String("file", src.Path), zap.Error(err))
				return nil
			}
			src.Text, src.Hash = text, hash

			if src.Language == config.LanguageVHDL {
				ff, err := extractor.Extract(gctx, src.Path, []byte(text))
				if err != nil {
					results[i].Err = err
					timing.File("index", src.Path, "error", start)
					return nil
				}
				vhdlFacts[i] = &ff
				indexed[i] = ff.Context(text)
			} else {
				indexed[i] = r.analyze(cfg, src.Path, text, analyzer.Resolve, nil)
			}
			timing.File("index", src.Path, "indexed", start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pc := analyzer.NewProjectContext()
	for i, c := range indexed {
		if c != nil {
			pc.Add(c)
		}
		if vhdlFacts[i] != nil {
			vhdl[sources[i].Path] = *vhdlFacts[i]
		}
	}
	fp := fingerprint(pc.Files, cfg.Analysis.MathReal)
	timing.Stage("index", stepStart)
	log.Debug("project indexed", zap.Int("contexts", len(pc.Files)), zap.String("fingerprint", fp))

	// 3. Analyze every VHDP file against the rest of the project.
	stepStart = time.Now()
	var cache *resultCache
	if cfg.CacheEnabled() {
		cache = newResultCache(cfg.CacheDir(root))
		if err := cache.Load(); err != nil {
			log.Warn("cache disabled", zap.Error(err))
			cache = nil
		}
	}

	analyzed := make([]*analyzer.Context, len(sources))
	raw := make([][]Diagnostic, len(sources))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(parallelism(cfg))
	for i, src := range sources {
		if indexed[i] == nil {
			continue
		}
		if src.Language == config.LanguageVHDL {
			analyzed[i] = indexed[i]
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			others := pc.Without(src.Path)

			if cache != nil {
				diags, ok, err := cache.Get(src.Path, src.Hash, fp)
				if err != nil {
					log.Warn("cache read failed", zap.String("file", src.Path), zap.Error(err))
				} else if ok {
					analyzed[i] = r.analyze(cfg, src.Path, src.Text, analyzer.Resolve, others)
					raw[i] = diags
					results[i].Cached = true
					timing.File("analyze", src.Path, "cache_hit", start)
					return nil
				}
			}

			c := r.analyze(cfg, src.Path, src.Text, analyzer.Full, others)
			analyzed[i] = c
			raw[i] = fromAnalyzer(src.Path, c.Diagnostics())
			if cache != nil {
				if err := cache.Put(src.Path, src.Hash, fp, raw[i]); err != nil {
					return fmt.Errorf("cache write failed for %s: %w", src.Path, err)
				}
			}
			timing.File("analyze", src.Path, "analyzed", start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Save(); err != nil {
			return nil, fmt.Errorf("cache save failed: %w", err)
		}
	}
	timing.Stage("analyze", stepStart)

	result := &Result{Contexts: make(map[string]*analyzer.Context)}
	var factSources []facts.Source
	for i, src := range sources {
		if analyzed[i] != nil {
			result.Contexts[src.Path] = analyzed[i]
		}
		var diags []Diagnostic
		if !src.IsThirdParty {
			diags = applyRules(cfg, raw[i])
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
		factSources = append(factSources, facts.Source{
			Path:         src.Path,
			Library:      src.Library,
			Language:     src.Language,
			IsThirdParty: src.IsThirdParty,
			Context:      analyzed[i],
			Diagnostics:  diagnosticRows(diags),
		})
	}

	// 4. Fact tables
	stepStart = time.Now()
	tables := facts.BuildTables(factSources, nil)
	tables.Dependencies = append(tables.Dependencies, resolveDependencies(tables, vhdl)...)
	result.dependents = buildDependentsGraph(tables.Dependencies)

	factsValidator, err := validator.NewFactsValidator()
	if err != nil {
		return nil, fmt.Errorf("initialize facts validator: %w", err)
	}
	if err := factsValidator.Validate(tables); err != nil {
		return nil, fmt.Errorf("fact table contract violation: %w", err)
	}
	result.Tables = tables
	timing.Stage("facts", stepStart)

	// 5. Policies
	stepStart = time.Now()
	policyDir := cfg.Policy.Dir
	if policyDir != "" && !filepath.IsAbs(policyDir) {
		policyDir = filepath.Join(root, policyDir)
	}
	engine, err := policy.New(ctx, policyDir, log)
	if err != nil {
		return nil, fmt.Errorf("initialize policy engine: %w", err)
	}
	pres, err := engine.Evaluate(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}
	result.Policy = pres

	thirdParty := make(map[string]bool)
	for _, src := range sources {
		if src.IsThirdParty {
			thirdParty[src.Path] = true
		}
	}
	var violations []Diagnostic
	for _, v := range pres.Violations {
		if !thirdParty[v.File] {
			violations = append(violations, fromViolation(v))
		}
	}
	result.Diagnostics = append(result.Diagnostics, applyRules(cfg, violations)...)
	timing.Stage("policy", stepStart)

	sortDiagnostics(result.Diagnostics)
	result.Files = results
	summarize(result)

	timing.Stage("total", runStart)
	result.Timing = timing.Events()
	log.Info("lint finished",
		zap.Int("errors", result.Summary.Errors),
		zap.Int("warnings", result.Summary.Warnings),
		zap.Int("hints", result.Summary.Hints),
		zap.Duration("elapsed", time.Since(runStart)))
	return result, nil
}

// analyze parses text and runs mode, adding the configured implicit
// includes first.
func (r *Runner) analyze(cfg *config.Config, path, text string, mode analyzer.Mode, pc *analyzer.ProjectContext) *analyzer.Context {
	c := analyzer.Parse(path, text)
	if cfg.Analysis.MathReal {
		c.AddInclude("ieee.math_real.all")
	}
	return analyzer.Reanalyze(c, mode, pc)
}

func scan(cfg *config.Config, root string) ([]*source, error) {
	libs, err := cfg.ResolveLibraries(root)
	if err != nil {
		return nil, fmt.Errorf("resolve libraries: %w", err)
	}

	seen := make(map[string]bool)
	var sources []*source
	for _, lib := range libs {
		for _, f := range lib.Files {
			if seen[f] || cfg.ShouldIgnoreFile(f) {
				continue
			}
			seen[f] = true
			sources = append(sources, &source{
				Path:         f,
				Library:      lib.Name,
				Language:     config.LanguageOf(f),
				IsThirdParty: lib.IsThirdParty || cfg.IsThirdPartyFile(f),
			})
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

func parallelism(cfg *config.Config) int {
	if n := cfg.Analysis.MaxParallelFiles; n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

func summarize(r *Result) {
	byFile := make(map[string]*FileResult, len(r.Files))
	for i := range r.Files {
		byFile[r.Files[i].Path] = &r.Files[i]
	}
	r.Summary = Summary{Files: len(r.Files)}
	for _, d := range r.Diagnostics {
		fr := byFile[d.File]
		switch d.Severity {
		case "error":
			r.Summary.Errors++
			if fr != nil {
				fr.Errors++
			}
		case "warning":
			r.Summary.Warnings++
			if fr != nil {
				fr.Warnings++
			}
		default:
			r.Summary.Hints++
			if fr != nil {
				fr.Hints++
			}
		}
	}
}

// ClearCache removes the analysis cache for root and returns the directory
// that was targeted.
func ClearCache(root string, cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("clear cache: config is nil")
	}
	dir := cfg.CacheDir(root)
	return dir, newResultCache(dir).Clear()
}
