package filediscovery

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// RecodeIgnoreFile is the workspace-local ignore list maintained by the
// `recode ignore` command. Its patterns apply on top of .gitignore.
const RecodeIgnoreFile = ".recode/recodeignore"

// essentialPatterns are always active so recode never feeds its own state
// directory back into a model.
func essentialPatterns() []string {
	return []string{
		".recode/",
		".recode/*",
	}
}

// GetIgnoreRules compiles the ignore rules for rootDir from .gitignore and
// the recodeignore file, plus the essential recode patterns.
func GetIgnoreRules(rootDir string) *ignore.GitIgnore {
	allLines := essentialPatterns()

	gitIgnorePath := filepath.Join(rootDir, ".gitignore")
	if content, err := os.ReadFile(gitIgnorePath); err == nil {
		allLines = append(allLines, strings.Split(string(content), "\n")...)
	}

	recodeIgnorePath := filepath.Join(rootDir, RecodeIgnoreFile)
	if content, err := os.ReadFile(recodeIgnorePath); err == nil {
		allLines = append(allLines, strings.Split(string(content), "\n")...)
	}

	// Drop empty lines and comments before compiling.
	var filtered []string
	for _, line := range allLines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			filtered = append(filtered, line)
		}
	}

	return ignore.CompileIgnoreLines(filtered...)
}

// AddToRecodeIgnore appends a pattern to the recodeignore file under rootDir,
// creating the file and the .recode directory when missing.
func AddToRecodeIgnore(rootDir, pattern string) error {
	ignorePath := filepath.Join(rootDir, RecodeIgnoreFile)
	if err := os.MkdirAll(filepath.Dir(ignorePath), os.ModePerm); err != nil {
		return err
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(pattern + "\n"); err != nil {
		return err
	}

	return nil
}
