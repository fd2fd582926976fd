/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package licenses reports the declared licenses of a Node-style project's
// direct dependencies from its package.json and node_modules directory.
package licenses

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fulmenhq/nodelic/pkg/logger"
	"github.com/fulmenhq/nodelic/pkg/safeio"
)

const (
	DefaultManifestFile = "package.json"
	DefaultModulesDir   = "node_modules"
)

// Options configures a single report run.
type Options struct {
	ProjectDir   string
	IncludeDev   bool
	Format       Format
	ManifestFile string
	ModulesDir   string
	MetadataFile string
}

func (o Options) withDefaults() Options {
	if o.ManifestFile == "" {
		o.ManifestFile = DefaultManifestFile
	}
	if o.ModulesDir == "" {
		o.ModulesDir = DefaultModulesDir
	}
	if o.MetadataFile == "" {
		o.MetadataFile = DefaultMetadataFile
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	return o
}

// ResolveProjectDir returns the project directory for a --path value.
// Relative paths are taken from baseDir, absolute paths are used as-is.
func ResolveProjectDir(baseDir, path string) string {
	if path == "" {
		return baseDir
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// Reporter drives one report run.
type Reporter struct {
	opts Options
	out  io.Writer
}

// NewReporter creates a Reporter writing to out.
func NewReporter(opts Options, out io.Writer) *Reporter {
	return &Reporter{opts: opts.withDefaults(), out: out}
}

// Run checks the project layout, then resolves and writes one record per
// dependency in manifest order. Nothing is written unless every
// prerequisite is present.
func (r *Reporter) Run() ([]Record, error) {
	manifestPath := filepath.Join(r.opts.ProjectDir, r.opts.ManifestFile)
	if !safeio.FileExists(manifestPath) {
		return nil, &MissingInputError{Path: manifestPath, Hint: "Try with --path argument"}
	}

	storageDir := filepath.Join(r.opts.ProjectDir, r.opts.ModulesDir)
	if !safeio.DirExists(storageDir) {
		return nil, &MissingInputError{Path: storageDir, Hint: "Did you run `npm install` ?"}
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if !manifest.HasDependencies() {
		return nil, &MissingInputError{Path: manifestPath, Field: "dependencies"}
	}

	w, err := NewWriter(r.opts.Format, r.out)
	if err != nil {
		return nil, err
	}

	deps := manifest.Dependencies
	if r.opts.IncludeDev && manifest.HasDevDependencies() {
		deps = append(append([]Dependency{}, deps...), manifest.DevDependencies...)
	}
	logger.Debug("Resolving dependency licenses",
		logger.String("manifest", manifestPath),
		logger.Int("count", len(deps)),
		logger.Bool("include_dev", r.opts.IncludeDev))

	resolver := &Resolver{StorageDir: storageDir, MetadataFile: r.opts.MetadataFile}
	records := make([]Record, 0, len(deps))
	for _, dep := range deps {
		rec := Record{Package: dep.Name, License: resolver.Resolve(dep.Name)}
		logger.Trace("Resolved license",
			logger.String("package", rec.Package),
			logger.String("license", rec.License),
			logger.Bool("dev", dep.Dev))
		if err := w.Add(rec); err != nil {
			return records, err
		}
		records = append(records, rec)
	}

	if err := w.Flush(); err != nil {
		return records, fmt.Errorf("failed to write report: %w", err)
	}
	return records, nil
}
