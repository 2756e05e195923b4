// Package ops implements the three operations behind the MCP surface.
// Every failure is converted to a structured *Error here; nothing below
// this boundary reaches the transport as a raw fault.
package ops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mcpforge/mcpforge/internal/artifact"
	"github.com/mcpforge/mcpforge/internal/buildtool"
	"github.com/mcpforge/mcpforge/internal/detect"
	"github.com/mcpforge/mcpforge/internal/launch"
	"github.com/mcpforge/mcpforge/internal/paths"
	"github.com/mcpforge/mcpforge/internal/registry"
	"github.com/mcpforge/mcpforge/internal/scaffold"
)

// ErrorKind classifies a failed operation for the caller.
type ErrorKind string

const (
	DirectoryNotFound   ErrorKind = "directory_not_found"
	AlreadyExists       ErrorKind = "already_exists"
	UnrecognizedProject ErrorKind = "unrecognized_project_kind"
	ArtifactNotFound    ErrorKind = "artifact_not_found"
	NoArchiveFound      ErrorKind = "no_archive_found"
	BuildToolFailed     ErrorKind = "build_tool_failed"
	ConfigCorrupt       ErrorKind = "config_corrupt"
	ScaffoldFailed      ErrorKind = "scaffold_failed"
	Internal            ErrorKind = "internal"
)

// Error is the uniform failure shape every operation returns.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func failf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Result is the success payload: a confirmation message plus the resolved
// absolute paths the operation touched.
type Result struct {
	Message    string `json:"message"`
	Path       string `json:"path"`
	ConfigPath string `json:"config_path,omitempty"`
}

// Service wires the operations to their collaborators.
type Service struct {
	logger          *log.Logger
	runner          buildtool.Runner
	configPath      string // registry override from settings; empty means platform default
	defaultLanguage string
}

// New builds a Service. configPath and defaultLanguage may be empty.
func New(logger *log.Logger, runner buildtool.Runner, configPath, defaultLanguage string) *Service {
	return &Service{
		logger:          logger,
		runner:          runner,
		configPath:      configPath,
		defaultLanguage: defaultLanguage,
	}
}

// DefaultLanguage is the kind used when create gets no language argument.
func (s *Service) DefaultLanguage() string { return s.defaultLanguage }

// Create scaffolds a new project of the given kind at directory. The
// target must not exist yet. A tree left behind by a failed scaffold is
// not cleaned up; the error names it.
func (s *Service) Create(ctx context.Context, name string, kind detect.Kind, directory string) (*Result, *Error) {
	_ = ctx
	target, err := paths.Expand(directory)
	if err != nil {
		return nil, failf(Internal, "resolve %s: %v", directory, err)
	}
	if _, err := os.Stat(target); err == nil {
		return nil, failf(AlreadyExists, "%s already exists", target)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, failf(ScaffoldFailed, "create %s: %v", target, err)
	}

	if err := scaffold.Generate(kind, name, target); err != nil {
		return nil, failf(ScaffoldFailed, "scaffold %s project in %s (partial tree left in place): %v", kind, target, err)
	}
	if err := scaffold.InitGit(target); err != nil {
		s.logger.Warn("git init skipped", "dir", target, "err", err)
	}

	s.logger.Info("created server", "name", name, "kind", kind, "dir", target)
	return &Result{
		Message: fmt.Sprintf("Created %s server %q at %s", kind, name, target),
		Path:    target,
	}, nil
}

// Build detects the project kind and runs its build chain.
func (s *Service) Build(ctx context.Context, directory string) (*Result, *Error) {
	target, opErr := s.resolveProjectDir(directory)
	if opErr != nil {
		return nil, opErr
	}

	kind, err := detect.Detect(target)
	if err != nil {
		return nil, detectionError(err, target)
	}

	hasPom := false
	if info, err := os.Stat(filepath.Join(target, "pom.xml")); err == nil && !info.IsDir() {
		hasPom = true
	}

	if err := buildtool.Run(ctx, s.runner, target, buildtool.PlanFor(kind, hasPom)); err != nil {
		return nil, failf(BuildToolFailed, "build %s project in %s: %v", kind, target, err)
	}

	s.logger.Info("built server", "kind", kind, "dir", target)
	return &Result{
		Message: fmt.Sprintf("Built %s server at %s", kind, target),
		Path:    target,
	}, nil
}

// Install registers the project's launch spec in the Claude Desktop
// configuration. name defaults to the directory basename; configPath
// defaults to the service override, then the platform path. The registry
// is re-read immediately before the merge so concurrent installs of
// different names compose.
func (s *Service) Install(ctx context.Context, directory, name, configPath string) (*Result, *Error) {
	_ = ctx
	target, opErr := s.resolveProjectDir(directory)
	if opErr != nil {
		return nil, opErr
	}

	kind, err := detect.Detect(target)
	if err != nil {
		return nil, detectionError(err, target)
	}

	art, err := artifact.Locate(target, kind)
	switch {
	case errors.Is(err, artifact.ErrNoArchive):
		return nil, failf(NoArchiveFound, "%v", err)
	case errors.Is(err, artifact.ErrNotFound):
		return nil, failf(ArtifactNotFound, "%v", err)
	case err != nil:
		return nil, failf(Internal, "locate artifact in %s: %v", target, err)
	}

	spec := launch.Build(art, target)
	if name == "" {
		name = filepath.Base(target)
	}

	cfgPath, opErr := s.resolveConfigPath(configPath)
	if opErr != nil {
		return nil, opErr
	}

	doc, err := registry.Load(cfgPath)
	if err != nil {
		if errors.Is(err, registry.ErrCorrupt) {
			return nil, failf(ConfigCorrupt, "%v", err)
		}
		return nil, failf(Internal, "load config: %v", err)
	}
	if err := doc.Merge(name, spec); err != nil {
		return nil, failf(Internal, "merge entry %q: %v", name, err)
	}
	if err := registry.Save(cfgPath, doc); err != nil {
		return nil, failf(Internal, "save config: %v", err)
	}

	s.logger.Info("installed server", "name", name, "kind", kind, "config", cfgPath)
	return &Result{
		Message:    fmt.Sprintf("Installed %q (%s) into %s", name, kind, cfgPath),
		Path:       target,
		ConfigPath: cfgPath,
	}, nil
}

func (s *Service) resolveProjectDir(directory string) (string, *Error) {
	target, err := paths.Expand(directory)
	if err != nil {
		return "", failf(Internal, "resolve %s: %v", directory, err)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return "", failf(DirectoryNotFound, "%s is not a directory", target)
	}
	return target, nil
}

func (s *Service) resolveConfigPath(override string) (string, *Error) {
	path := override
	if path == "" {
		path = s.configPath
	}
	if path == "" {
		def, err := paths.DefaultConfigPath()
		if err != nil {
			return "", failf(Internal, "resolve default config path: %v", err)
		}
		path = def
	}
	expanded, err := paths.Expand(path)
	if err != nil {
		return "", failf(Internal, "resolve config path %s: %v", path, err)
	}
	return expanded, nil
}

func detectionError(err error, target string) *Error {
	if errors.Is(err, detect.ErrUnrecognized) {
		return failf(UnrecognizedProject, "%v", err)
	}
	return failf(Internal, "detect project kind in %s: %v", target, err)
}
