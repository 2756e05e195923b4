package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mcpforge/mcpforge/internal/detect"
)

// Type tags the concrete launch target a build produces.
type Type int

const (
	// Entry is a fixed entry file the build step is responsible for
	// producing (the compiled TypeScript bundle).
	Entry Type = iota
	// Script is an interpreter script sitting at the project root.
	Script
	// Module is an importable module name run with -m.
	Module
	// Archive is a packaged jar under a build output directory.
	Archive
)

// Artifact is the runnable output of a build. Value is a path relative to
// the project directory for Entry, Script, and Archive, and a module name
// for Module.
type Artifact struct {
	Type  Type
	Value string
}

var (
	// ErrNotFound means the expected build output is absent: build before install.
	ErrNotFound = errors.New("build artifact not found")
	// ErrNoArchive means a build output directory exists but holds no archive.
	ErrNoArchive = errors.New("no archive found in build output")
)

// tsEntry is where the scaffolded TypeScript build drops its bundle.
var tsEntry = filepath.Join("build", "index.js")

// jvmOutputs are scanned in order; the first existing directory wins, so
// Maven output shadows Gradle output when a project somehow has both.
var jvmOutputs = []string{"target", filepath.Join("build", "libs")}

// Locate finds the launch target for a detected project. It re-reads the
// directory on every call and never caches.
func Locate(dir string, kind detect.Kind) (Artifact, error) {
	switch kind {
	case detect.TypeScript:
		// The detector proved a manifest exists; producing build/index.js
		// is the build step's job, so existence is not verified here.
		return Artifact{Type: Entry, Value: tsEntry}, nil
	case detect.Python:
		return locatePython(dir)
	case detect.Java:
		return locateArchive(dir)
	}
	return Artifact{}, fmt.Errorf("locate: unknown project kind %q", kind)
}

func locatePython(dir string) (Artifact, error) {
	if info, err := os.Stat(filepath.Join(dir, "server.py")); err == nil && !info.IsDir() {
		return Artifact{Type: Script, Value: "server.py"}, nil
	}
	return Artifact{Type: Module, Value: ModuleName(dir)}, nil
}

// ModuleName derives the importable module name for a project: the
// pyproject [project] name when one parses, else the directory basename,
// with dashes normalized to underscores.
func ModuleName(dir string) string {
	name := filepath.Base(dir)
	if manifest := pyprojectName(filepath.Join(dir, "pyproject.toml")); manifest != "" {
		name = manifest
	}
	return strings.ReplaceAll(name, "-", "_")
}

func pyprojectName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var manifest struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	return strings.TrimSpace(manifest.Project.Name)
}

func locateArchive(dir string) (Artifact, error) {
	for _, out := range jvmOutputs {
		entries, err := os.ReadDir(filepath.Join(dir, out))
		if err != nil {
			continue
		}
		jar := pickJar(entries)
		if jar == "" {
			return Artifact{}, fmt.Errorf("%w: %s", ErrNoArchive, filepath.Join(dir, out))
		}
		return Artifact{Type: Archive, Value: filepath.Join(out, jar)}, nil
	}
	return Artifact{}, fmt.Errorf("%w: no build output in %s, run the build first", ErrNotFound, dir)
}

// pickJar prefers archives that bundle dependencies (Maven assembly, then
// Gradle shadow) over bare ones. Ties go to the lexically first name so
// repeated scans of an unchanged directory agree.
func pickJar(entries []os.DirEntry) string {
	var bundled, shadow, bare string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jar") {
			continue
		}
		switch {
		case strings.HasSuffix(name, "-jar-with-dependencies.jar"):
			bundled = pickFirst(bundled, name)
		case strings.HasSuffix(name, "-all.jar"):
			shadow = pickFirst(shadow, name)
		default:
			bare = pickFirst(bare, name)
		}
	}
	switch {
	case bundled != "":
		return bundled
	case shadow != "":
		return shadow
	default:
		return bare
	}
}

func pickFirst(current, candidate string) string {
	if current == "" || candidate < current {
		return candidate
	}
	return current
}
