// Package config loads the optional HCL configuration file. Command
// line flags always win over file values; the file wins over built-in
// defaults.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/NarendraaP/Epistemic-Engine/internal/octree"
)

// File is the top-level HCL document:
//
//	octree {
//	  max_points_per_node = 50000
//	  max_depth           = 5
//	  lod_fraction        = 0.10
//	  workers             = 8
//	}
//
//	database {
//	  path = "data/catalog.db"
//	}
//
// Both blocks and every attribute are optional.
type File struct {
	Octree   *OctreeBlock   `hcl:"octree,block"`
	Database *DatabaseBlock `hcl:"database,block"`
}

// OctreeBlock overrides the builder policy.
type OctreeBlock struct {
	MaxPointsPerNode *int     `hcl:"max_points_per_node,optional"`
	MaxDepth         *int     `hcl:"max_depth,optional"`
	LODFraction      *float64 `hcl:"lod_fraction,optional"`
	Workers          *int     `hcl:"workers,optional"`
}

// DatabaseBlock points at the SQLite catalog.
type DatabaseBlock struct {
	Path string `hcl:"path"`
}

// Load parses an HCL configuration file.
func Load(path string) (*File, error) {
	var f File
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &f, nil
}

// Apply copies the file's settings onto cfg and dbPath, leaving
// anything the file does not set untouched. Validation stays with
// octree.Config.Validate, after flags have had their turn.
func (f *File) Apply(cfg *octree.Config, dbPath *string) {
	if f.Octree != nil {
		if v := f.Octree.MaxPointsPerNode; v != nil {
			cfg.MaxPointsPerNode = *v
		}
		if v := f.Octree.MaxDepth; v != nil {
			cfg.MaxDepth = *v
		}
		if v := f.Octree.LODFraction; v != nil {
			cfg.LODFraction = *v
		}
		if v := f.Octree.Workers; v != nil {
			cfg.Workers = *v
		}
	}
	if f.Database != nil && f.Database.Path != "" {
		*dbPath = f.Database.Path
	}
}
