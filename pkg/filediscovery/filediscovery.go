// Package filediscovery resolves user-supplied paths, directories and glob
// patterns to the concrete files the code tools operate on, honoring the
// workspace ignore rules.
package filediscovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skippedDirs never contribute files no matter what the ignore rules say.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
}

// ListFiles resolves patternOrPath to a sorted list of absolute file paths.
// An existing file resolves to itself, an existing directory to every file
// beneath it, and anything else is treated as a glob pattern relative to the
// working directory. Directory and glob results skip dependency and VCS
// directories plus anything matched by the ignore rules; only an input that
// resolves to no candidates at all is an error.
func ListFiles(patternOrPath string) ([]string, error) {
	if info, err := os.Stat(patternOrPath); err == nil {
		if !info.IsDir() {
			abs, absErr := filepath.Abs(patternOrPath)
			if absErr != nil {
				return nil, absErr
			}
			return []string{abs}, nil
		}
		return listDirFiles(patternOrPath)
	}

	matches, err := filepath.Glob(patternOrPath)
	if err == nil && len(matches) > 0 {
		return filterGlobMatches(matches)
	}

	return nil, fmt.Errorf("no files match path or pattern: %s", patternOrPath)
}

func listDirFiles(root string) ([]string, error) {
	rules := GetIgnoreRules(root)

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if skippedDirs[d.Name()] || rules.MatchesPath(filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if rules.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return absErr
		}
		files = append(files, abs)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

func filterGlobMatches(matches []string) ([]string, error) {
	rules := GetIgnoreRules(".")

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if crossesSkippedDir(match) || rules.MatchesPath(filepath.ToSlash(match)) {
			continue
		}
		abs, absErr := filepath.Abs(match)
		if absErr != nil {
			return nil, absErr
		}
		files = append(files, abs)
	}

	sort.Strings(files)
	return files, nil
}

func crossesSkippedDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skippedDirs[part] {
			return true
		}
	}
	return false
}

// DetectProjectType inspects rootDir for well-known marker files and returns
// a coarse project label. Used for log context and as the converter's default
// source-language hint.
func DetectProjectType(rootDir string) string {
	if hasFile(rootDir, "go.mod") {
		return "go"
	}
	if hasFile(rootDir, "package.json") {
		return "javascript"
	}
	if hasFile(rootDir, "requirements.txt") || hasFile(rootDir, "pyproject.toml") {
		return "python"
	}
	if hasFile(rootDir, "Cargo.toml") {
		return "rust"
	}
	if hasFile(rootDir, "pom.xml") || hasFile(rootDir, "build.gradle") {
		return "java"
	}
	if hasFile(rootDir, "Gemfile") {
		return "ruby"
	}
	return "unknown"
}

func hasFile(rootDir, name string) bool {
	info, err := os.Stat(filepath.Join(rootDir, name))
	return err == nil && !info.IsDir()
}
