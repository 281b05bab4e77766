package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source languages recognized by extension.
const (
	LanguageVHDP = "vhdp"
	LanguageVHDL = "vhdl"
)

// LanguageOf returns the language of a source file by extension, or "" for
// files the linter does not read.
func LanguageOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vhdp", ".ghdp":
		return LanguageVHDP
	case ".vhd", ".vhdl":
		return LanguageVHDL
	}
	return ""
}

// ResolvedLibrary contains the expanded file list for a library
type ResolvedLibrary struct {
	Name         string
	Files        []string
	IsThirdParty bool
}

// ResolveLibraries expands all glob patterns and returns resolved file lists
func (c *Config) ResolveLibraries(rootPath string) ([]ResolvedLibrary, error) {
	var result []ResolvedLibrary
	byName := make(map[string]int)

	names := make([]string, 0, len(c.Libraries))
	for name := range c.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, libName := range names {
		libCfg := c.Libraries[libName]
		resolved := ResolvedLibrary{
			Name:         libName,
			IsThirdParty: libCfg.IsThirdParty,
		}

		fileSet := make(map[string]bool)
		for _, pattern := range libCfg.Files {
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(rootPath, pattern)
			}

			matches, err := expandGlob(pattern)
			if err != nil {
				continue
			}

			for _, match := range matches {
				if LanguageOf(match) != "" {
					fileSet[match] = true
				}
			}
		}

		for _, pattern := range libCfg.Exclude {
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(rootPath, pattern)
			}

			matches, err := expandGlob(pattern)
			if err != nil {
				continue
			}

			for _, match := range matches {
				delete(fileSet, match)
			}
		}

		for f := range fileSet {
			resolved.Files = append(resolved.Files, f)
		}
		sort.Strings(resolved.Files)

		byName[libName] = len(result)
		result = append(result, resolved)
	}

	// Explicit entries join their library, creating it when needed. Entries
	// whose language is neither VHDP nor VHDL are skipped.
	for _, entry := range c.Files {
		if entry.File == "" {
			continue
		}
		path := entry.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootPath, path)
		}
		lang := entry.Language
		if lang == "" {
			lang = LanguageOf(path)
		}
		if lang != LanguageVHDP && lang != LanguageVHDL {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		lib := entry.Library
		if lib == "" {
			lib = "work"
		}
		i, ok := byName[lib]
		if !ok {
			i = len(result)
			byName[lib] = i
			result = append(result, ResolvedLibrary{Name: lib, IsThirdParty: entry.IsThirdParty})
		}
		if !containsFile(result[i].Files, path) {
			result[i].Files = append(result[i].Files, path)
		}
	}

	return result, nil
}

func containsFile(files []string, path string) bool {
	for _, f := range files {
		if f == path {
			return true
		}
	}
	return false
}

// expandGlob expands a glob pattern. A "**" segment matches any number of
// directories.
func expandGlob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		return filepath.Glob(pattern)
	}
	base, rest, _ := strings.Cut(pattern, "**")
	base = filepath.Clean(base)
	rest = strings.TrimPrefix(rest, string(filepath.Separator))

	var results []string
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return nil
		}
		if rest == "" || matchSuffix(rel, rest) {
			results = append(results, path)
		}
		return nil
	})
	return results, err
}

// matchSuffix matches the part of a pattern after "**" against a path
// relative to the walk root.
func matchSuffix(rel, pattern string) bool {
	if !strings.Contains(pattern, string(filepath.Separator)) {
		matched, _ := filepath.Match(pattern, filepath.Base(rel))
		return matched
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for i := range parts {
		if matched, _ := filepath.Match(pattern, filepath.Join(parts[i:]...)); matched {
			return true
		}
	}
	return false
}

// GetAllFiles returns every source file from all libraries (flattened, sorted)
func (c *Config) GetAllFiles(rootPath string) ([]string, error) {
	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return nil, err
	}

	fileSet := make(map[string]bool)
	for _, lib := range libs {
		for _, f := range lib.Files {
			fileSet[f] = true
		}
	}

	var result []string
	for f := range fileSet {
		if !c.ShouldIgnoreFile(f) {
			result = append(result, f)
		}
	}
	sort.Strings(result)

	return result, nil
}

// FileLibraryInfo contains library information for a specific file
type FileLibraryInfo struct {
	LibraryName  string
	IsThirdParty bool
}

// GetFileLibrary returns the library information for a file
func (c *Config) GetFileLibrary(filePath string, rootPath string) FileLibraryInfo {
	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return FileLibraryInfo{LibraryName: "work", IsThirdParty: false}
	}

	absPath, _ := filepath.Abs(filePath)

	for _, entry := range c.Files {
		path := entry.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootPath, path)
		}
		if absF, _ := filepath.Abs(path); absF == absPath && entry.Library != "" {
			return FileLibraryInfo{LibraryName: entry.Library, IsThirdParty: entry.IsThirdParty}
		}
	}

	for _, lib := range libs {
		for _, f := range lib.Files {
			absF, _ := filepath.Abs(f)
			if absPath == absF {
				return FileLibraryInfo{
					LibraryName:  lib.Name,
					IsThirdParty: lib.IsThirdParty,
				}
			}
		}
	}

	return FileLibraryInfo{LibraryName: "work", IsThirdParty: false}
}
