package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/rolepref/types"
)

// File implements a pool source backed by a YAML file.
//
// The file is read on every LoadPool call, so operators can edit it between rounds.
// Roles are referenced by catalog name; "none" or an omitted role marks a spectator.
//
// Format:
//
//	capacity:
//	  classd: 4
//	  scientist: 2
//	candidates:
//	  - identity: alice
//	    role: classd
//	  - identity: bob
//	    role: scientist
//	  - identity: carol
//
// Omitting capacity derives it from the candidates' current roles.
type File struct {
	path    string
	catalog *types.RoleCatalog
}

var _ types.PoolSource = (*File)(nil)

type poolFile struct {
	Capacity   map[string]int `yaml:"capacity"`
	Candidates []struct {
		Identity string `yaml:"identity"`
		Role     string `yaml:"role"`
	} `yaml:"candidates"`
}

// NewFile creates a pool source reading path.
//
// Parameters:
//   - path: YAML pool file
//   - catalog: Catalog used to resolve role names
//
// Returns:
//   - *File: Initialized file source
func NewFile(path string, catalog *types.RoleCatalog) *File {
	return &File{path: path, catalog: catalog}
}

// LoadPool reads and parses the pool file.
//
// Returns:
//   - *types.Pool: Parsed pool
//   - error: Read error, YAML error, or ErrInvalidPool/ErrUnknownRole on bad content
func (f *File) LoadPool(ctx context.Context) (*types.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}

	return ParsePool(f.catalog, data)
}

// ParsePool parses a YAML pool description.
//
// Parameters:
//   - catalog: Catalog used to resolve role names
//   - data: YAML document in the File format
//
// Returns:
//   - *types.Pool: Parsed pool with candidates in document order
//   - error: YAML error, or ErrInvalidPool/ErrUnknownRole on bad content
func ParsePool(catalog *types.RoleCatalog, data []byte) (*types.Pool, error) {
	var doc poolFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pool file: %w", err)
	}

	pool := &types.Pool{Candidates: make([]types.Candidate, 0, len(doc.Candidates))}
	for i, c := range doc.Candidates {
		if err := types.ValidateIdentity(c.Identity); err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %w", types.ErrInvalidPool, i, err)
		}

		role := types.RoleNone
		if c.Role != "" {
			r, ok := catalog.Lookup(c.Role)
			if !ok {
				return nil, fmt.Errorf("%w: candidate %q: %w %q", types.ErrInvalidPool, c.Identity, types.ErrUnknownRole, c.Role)
			}
			role = r
		}
		pool.Candidates = append(pool.Candidates, types.Candidate{Identity: c.Identity, Role: role})
	}

	if doc.Capacity != nil {
		pool.Capacity = make(types.Capacity, len(doc.Capacity))
		for name, n := range doc.Capacity {
			role, ok := catalog.Lookup(name)
			if !ok || role == types.RoleNone {
				return nil, fmt.Errorf("%w: capacity: %w %q", types.ErrInvalidPool, types.ErrUnknownRole, name)
			}
			if n < 0 {
				return nil, fmt.Errorf("%w: capacity of %s is negative", types.ErrInvalidPool, name)
			}
			pool.Capacity[role] = n
		}
	}

	return pool, nil
}
