/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/nodelic/pkg/buildinfo"
	"github.com/fulmenhq/nodelic/pkg/config"
	"github.com/fulmenhq/nodelic/pkg/licenses"
	"github.com/fulmenhq/nodelic/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// environment carries the process facts a report run depends on.
type environment struct {
	BaseDir   string // directory of the running executable
	GoVersion string
}

func bindReportFlags(fs *pflag.FlagSet) {
	fs.BoolP("include-dev", "d", false, "Include devDependencies from package.json")
	fs.BoolP("json", "j", false, "Output in JSON (same as --format json)")
	fs.StringP("path", "p", "", "Path to the folder containing package.json and node_modules/, relative to the binary's location")
	fs.String("format", "text", "Output format (text|json|yaml|markdown)")
	fs.String("manifest", licenses.DefaultManifestFile, "Manifest file name inside the project")
	fs.String("modules-dir", licenses.DefaultModulesDir, "Package storage directory name inside the project")
}

func detectEnvironment() (environment, error) {
	exe, err := os.Executable()
	if err != nil {
		return environment{}, fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return environment{BaseDir: filepath.Dir(exe), GoVersion: buildinfo.GoVersion()}, nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	env, err := detectEnvironment()
	if err != nil {
		return err
	}
	return runReportWithEnv(cmd, env)
}

func runReportWithEnv(cmd *cobra.Command, env environment) error {
	if err := licenses.CheckRuntime(env.GoVersion, licenses.MinimumGoVersion); err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return &usageError{err: err}
	}

	format, err := licenses.ParseFormat(cfg.Format)
	if err != nil {
		return &usageError{err: err}
	}
	if cfg.JSON {
		format = licenses.FormatJSON
	}

	opts := licenses.Options{
		ProjectDir:   licenses.ResolveProjectDir(env.BaseDir, cfg.Path),
		IncludeDev:   cfg.IncludeDev,
		Format:       format,
		ManifestFile: cfg.Manifest,
		ModulesDir:   cfg.ModulesDir,
		MetadataFile: cfg.MetadataFile,
	}
	logger.Debug("Starting license report",
		logger.String("project", opts.ProjectDir),
		logger.String("format", string(opts.Format)),
		logger.Bool("include_dev", opts.IncludeDev))

	records, err := licenses.NewReporter(opts, cmd.OutOrStdout()).Run()
	if err != nil {
		return err
	}
	logger.Info("License report complete", logger.Int("dependencies", len(records)))
	return nil
}
