// Package launch maps located artifacts to the command lines that start
// them. Building a spec is pure: no I/O, identical inputs give identical
// specs.
package launch

import (
	"path/filepath"

	"github.com/mcpforge/mcpforge/internal/artifact"
)

// Spec is the command and ordered argument list needed to start a server.
// Its JSON shape matches the entries under mcpServers in the Claude
// Desktop configuration.
type Spec struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Build produces the launch spec for an artifact. absDir must be the
// absolute project directory; registered commands never carry relative
// paths.
func Build(art artifact.Artifact, absDir string) Spec {
	switch art.Type {
	case artifact.Entry:
		return Spec{Command: "node", Args: []string{filepath.Join(absDir, art.Value)}}
	case artifact.Script:
		return Spec{Command: "uv", Args: []string{"--directory", absDir, "run", art.Value}}
	case artifact.Module:
		return Spec{Command: "uv", Args: []string{"--directory", absDir, "run", "python", "-m", art.Value}}
	case artifact.Archive:
		return Spec{Command: "java", Args: []string{"-jar", filepath.Join(absDir, art.Value)}}
	}
	return Spec{}
}
