// Package snapshot stores the documents produced by a scan pass.
//
// Each pass writes into a private staging directory. Publishing renames the
// staging directory into a generation directory and swaps the "current"
// symlink, so readers only ever see a complete generation. A "processing"
// sentinel file exists while a pass is writing.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/gaze-network/ledger-scanner/core/types"
)

const (
	generationsDir = "generations"
	currentLink    = "current"
	sentinelFile   = "processing"
	manifestFile   = "manifest.json"
	stagingPrefix  = ".building-"
)

type Config struct {
	DataDir string `mapstructure:"data_dir"`

	// KeepGenerations is the number of published generations kept on disk.
	KeepGenerations int `mapstructure:"keep_generations"`

	// PageSize is the maximum number of records per paginated document.
	PageSize int `mapstructure:"page_size"`

	S3 S3Config `mapstructure:"s3"`
}

const (
	DefaultKeepGenerations = 3
	DefaultPageSize        = 1_000_000
)

// Artifact is one document of a generation.
type Artifact struct {
	// Name is the file name inside the generation directory.
	Name string

	// Value is encoded as JSON unless Raw is set.
	Value any

	// Raw is written verbatim.
	Raw []byte
}

func (a Artifact) bytes() ([]byte, error) {
	if a.Raw != nil {
		return a.Raw, nil
	}
	return json.Marshal(a.Value)
}

// Generation describes a published set of documents.
type Generation struct {
	Name        string             `json:"name"`
	Header      types.LedgerHeader `json:"header"`
	Files       []string           `json:"files"`
	PublishedAt time.Time          `json:"published_at"`

	dir string
}

// Dir is the directory holding the generation's files.
func (g *Generation) Dir() string {
	return g.dir
}

// HasFile reports whether name is part of the generation.
func (g *Generation) HasFile(name string) bool {
	for _, f := range g.Files {
		if f == name {
			return true
		}
	}
	return false
}
