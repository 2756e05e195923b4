package detect

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind identifies the implementation ecosystem of a server project.
type Kind string

const (
	TypeScript Kind = "typescript"
	Python     Kind = "python"
	Java       Kind = "java"
)

// ErrUnrecognized indicates no detection rule matched the directory.
var ErrUnrecognized = errors.New("unrecognized project kind")

// rule maps marker entries to a kind. Rules are evaluated in order and the
// first match wins: a project may carry markers for more than one ecosystem
// (a TypeScript project has a build/ directory too).
type rule struct {
	kind  Kind
	files []string
	dirs  []string
}

var rules = []rule{
	{kind: TypeScript, files: []string{"package.json"}},
	{kind: Python, files: []string{"requirements.txt", "pyproject.toml", "server.py"}},
	{
		kind:  Java,
		files: []string{"pom.xml", "build.gradle", "build.gradle.kts"},
		dirs:  []string{"target", "build"},
	},
}

// Detect infers the project kind from the directory's entry names alone.
// It never reads file contents and takes a fresh listing on every call.
func Detect(dir string) (Kind, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}

	files := make(map[string]bool, len(entries))
	dirs := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			dirs[entry.Name()] = true
		} else {
			files[entry.Name()] = true
		}
	}

	for _, r := range rules {
		for _, name := range r.files {
			if files[name] {
				return r.kind, nil
			}
		}
		for _, name := range r.dirs {
			if dirs[name] {
				return r.kind, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no ecosystem markers in %s", ErrUnrecognized, dir)
}

// ParseLanguage maps a caller-supplied language string to a Kind.
func ParseLanguage(language string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case string(TypeScript):
		return TypeScript, nil
	case string(Python):
		return Python, nil
	case string(Java):
		return Java, nil
	}
	return "", fmt.Errorf("unsupported language %q: expected typescript, python, or java", language)
}
