// Package registry owns the shared Claude Desktop configuration document.
// No other package reads or writes the file. The document is shared with
// other tools, so everything this system does not own is carried as raw
// JSON and written back unchanged.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcpforge/mcpforge/internal/launch"
)

// ServersKey is the top-level key holding launch entries.
const ServersKey = "mcpServers"

// ErrCorrupt indicates the file exists but is not valid JSON. Treating it
// as empty would destroy entries owned by other consumers, so loading
// fails hard instead.
var ErrCorrupt = errors.New("config file is not valid JSON")

// Document is the configuration document with the server mapping split
// out for editing.
type Document struct {
	top     map[string]json.RawMessage
	servers map[string]json.RawMessage
}

// Load reads the document at path. A missing file yields an empty
// document; an unparseable one fails with ErrCorrupt.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{
				top:     map[string]json.RawMessage{},
				servers: map[string]json.RawMessage{},
			}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	doc := &Document{top: top, servers: map[string]json.RawMessage{}}
	if raw, ok := top[ServersKey]; ok {
		if err := json.Unmarshal(raw, &doc.servers); err != nil {
			return nil, fmt.Errorf("%w: %s: malformed %q: %v", ErrCorrupt, path, ServersKey, err)
		}
	}
	return doc, nil
}

// Merge inserts or overwrites exactly the entry keyed by name. Sibling
// entries and unrelated top-level keys are untouched.
func (d *Document) Merge(name string, spec launch.Spec) error {
	raw, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encode launch spec for %q: %w", name, err)
	}
	d.servers[name] = raw
	return nil
}

// Server returns the launch spec registered under name, if any.
func (d *Document) Server(name string) (launch.Spec, bool) {
	raw, ok := d.servers[name]
	if !ok {
		return launch.Spec{}, false
	}
	var spec launch.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return launch.Spec{}, false
	}
	return spec, true
}

// Len reports how many servers the document registers.
func (d *Document) Len() int { return len(d.servers) }

// Save writes the document atomically: temp file in the target directory,
// fsync, rename. A concurrent reader observes either the old file or the
// new one, never a partial write.
func Save(path string, d *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	top := make(map[string]json.RawMessage, len(d.top)+1)
	for key, raw := range d.top {
		top[key] = raw
	}
	servers, err := json.Marshal(d.servers)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ServersKey, err)
	}
	top[ServersKey] = servers

	data, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config document: %w", err)
	}
	data = append(data, '\n')

	f, err := os.CreateTemp(dir, ".claude_desktop_config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("fsync config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close config: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
