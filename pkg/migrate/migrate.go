// Package migrate implements the extract and migrate operations on compose files.
package migrate

import (
	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/cmig/pkg/compose"
	"github.com/lucas-albers-lz4/cmig/pkg/fileutil"
	"github.com/lucas-albers-lz4/cmig/pkg/image"
	log "github.com/lucas-albers-lz4/cmig/pkg/log"
	"github.com/lucas-albers-lz4/cmig/pkg/targets"
)

// MigratedSuffix is inserted before the extension of the input path to derive
// the default output path.
const MigratedSuffix = ".migrated"

// Migrator runs extract and migrate against files on Fs. A nil or empty
// Targets migrates every valid image.
type Migrator struct {
	Fs      afero.Fs
	Targets targets.Set
}

// Result describes a completed migration.
type Result struct {
	OutputPath string            `json:"output"`
	Rewrites   []compose.Rewrite `json:"rewrites"`
}

// ImageInfo describes one extracted image for the detailed report formats.
type ImageInfo struct {
	image.Reference
	Migrate bool `json:"migrate"`
}

// New returns a Migrator on fs with an optional allow-list.
func New(fs afero.Fs, allow targets.Set) *Migrator {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Migrator{Fs: fs, Targets: allow}
}

// Extract returns the distinct valid images referenced by the compose file at
// path, sorted ascending.
func (m *Migrator) Extract(path string) ([]string, error) {
	doc, err := compose.Load(m.Fs, path)
	if err != nil {
		return nil, err
	}
	return compose.ExtractImages(doc)
}

// Describe extracts the images of path and annotates each with its normalized
// registry, repository and tag and whether the allow-list selects it.
// Images the registry grammar rejects are reported with the original string only.
func (m *Migrator) Describe(path string) ([]ImageInfo, error) {
	images, err := m.Extract(path)
	if err != nil {
		return nil, err
	}

	infos := make([]ImageInfo, 0, len(images))
	for _, img := range images {
		info := ImageInfo{Reference: image.Reference{Original: img}, Migrate: m.Targets.ShouldMigrate(img)}
		ref, err := image.Describe(img)
		if err != nil {
			log.Warn("Could not normalize image reference", "image", img, "error", err)
		} else {
			info.Reference = *ref
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Render rewrites the compose file at path in memory and returns the encoded result.
func (m *Migrator) Render(path, newRegistry string) ([]byte, []compose.Rewrite, error) {
	doc, err := compose.Load(m.Fs, path)
	if err != nil {
		return nil, nil, err
	}
	rewrites, err := compose.MigrateImages(doc, newRegistry, m.Targets)
	if err != nil {
		return nil, nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, nil, err
	}
	return data, rewrites, nil
}

// Migrate rewrites the compose file at path and writes it to outputPath, or to
// OutputPath(path) when outputPath is empty. The write is atomic.
func (m *Migrator) Migrate(path, newRegistry, outputPath string) (*Result, error) {
	data, rewrites, err := m.Render(path, newRegistry)
	if err != nil {
		return nil, err
	}

	if outputPath == "" {
		outputPath = OutputPath(path)
	}
	exists, err := fileutil.FileExists(m.Fs, outputPath)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Warn("Overwriting existing output file", "output", outputPath)
	}
	if err := fileutil.WriteFileAtomic(m.Fs, outputPath, data, fileutil.ReadWriteUserReadOthers); err != nil {
		return nil, err
	}

	for _, rw := range rewrites {
		log.Info("Migrated image", "service", rw.Service, "field", rw.Field, "from", rw.From, "to", rw.To)
	}
	log.Info("Migration written", "input", path, "output", outputPath, "rewritten", len(rewrites))
	return &Result{OutputPath: outputPath, Rewrites: rewrites}, nil
}

// OutputPath derives the default output path: docker-compose.yml becomes
// docker-compose.migrated.yml.
func OutputPath(path string) string {
	return fileutil.DerivedPath(path, MigratedSuffix)
}
