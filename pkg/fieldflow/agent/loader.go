package agent

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/registry"
)

// DefinitionFile is the file name Discover looks for in each agent
// directory.
const DefinitionFile = "agent.json"

// Load reads and parses an agent definition from a single file.
// The returned definition's Dir is set to the file's directory.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	def.Dir = filepath.Dir(path)
	return def, nil
}

// Registry holds agent definitions indexed by ID.
// It is safe for concurrent use.
type Registry struct {
	defs *registry.Registry[string, *Definition]
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{defs: registry.New[string, *Definition]()}
}

// Register adds or replaces a definition in the registry.
func (r *Registry) Register(def *Definition) {
	r.defs.Register(def.ID, def)
}

// Get returns the definition for an agent ID.
func (r *Registry) Get(id string) (*Definition, bool) {
	return r.defs.Get(id)
}

// IDs returns all registered agent IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := r.defs.Keys()
	sort.Strings(ids)
	return ids
}

// List returns summary info for all registered agents, ordered by ID.
func (r *Registry) List() []map[string]any {
	out := make([]map[string]any, 0, r.defs.Len())
	for _, id := range r.IDs() {
		if def, ok := r.defs.Get(id); ok {
			out = append(out, def.Summary())
		}
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return r.defs.Len()
}

// Discover scans dir for subdirectories containing an agent.json file
// and loads each one into a new registry. Invalid definitions are
// logged and skipped rather than failing the scan.
func Discover(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read agents directory: %w", err)
	}

	reg := NewRegistry()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), DefinitionFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		def, err := Load(path)
		if err != nil {
			logger.Warn("skipping invalid agent definition",
				"path", path,
				"error", err)
			continue
		}

		reg.Register(def)
		logger.Info("discovered agent",
			"agent_id", def.ID,
			"agent_name", def.Name,
			"fields", len(def.Fields))
	}

	logger.Info("agent discovery complete",
		"dir", dir,
		"count", reg.Len())
	return reg, nil
}
