/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suparena/objectstore"
	"github.com/suparena/objectstore/config"
	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/model"
	"github.com/suparena/objectstore/registry"
)

// app holds what every command needs once the configuration is loaded.
type app struct {
	configPath string
	envFile    string
	jsonLogs   bool
	verbose    int

	logger  *zap.SugaredLogger
	config  *config.Config
	types   *registry.Types[*model.Type]
	catalog *objectstore.Catalog
	store   datastore.Store
	closeFn func() error
}

// NewRootCmd builds the objectctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "objectctl",
		Short: "Inspect and edit model instances in an object store",
		Long: `objectctl - typed access to the objects kept in a key-value store.

Model types and the backend (memory, sqlite or dynamodb) come from a YAML or
TOML configuration file. Instances are addressed by type and name.

Examples:
  objectctl --config objects.yaml types                     # List model types
  objectctl --config objects.yaml put person ada email=ada@example.com age=36
  objectctl --config objects.yaml get person ada
  objectctl --config objects.yaml query person --filter 'age>=21' --order -age
  objectctl --config objects.yaml collection ls person
  objectctl --config objects.yaml clear person`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Configuration file (.yaml, .yml or .toml)")
	flags.StringVar(&a.envFile, "env-file", "", "Dotenv file to load before reading the environment (default ./.env when present)")
	flags.BoolVar(&a.jsonLogs, "json-logs", false, "Write logs as JSON")
	flags.CountVarP(&a.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	root.AddCommand(
		newTypesCmd(a),
		newPutCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newQueryCmd(a),
		newClearCmd(a),
		newCollectionCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(a.jsonLogs, a.verbose)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	a.logger = logger

	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	cfg := config.Default()
	if a.configPath != "" {
		if cfg, err = config.LoadFile(a.configPath); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	a.config = cfg

	if a.types, err = cfg.BuildTypes(); err != nil {
		return errors.Wrap(err, "failed to define model types")
	}

	store, closeFn, err := cfg.OpenStore(cmd.Context(), logger)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s store", cfg.Backend)
	}
	a.store, a.closeFn = store, closeFn

	if a.catalog, err = cfg.BuildCatalog(store, a.types, objectstore.WithLogger(logger)); err != nil {
		return err
	}
	logger.Debugw("objectctl ready", "backend", cfg.Backend, "types", a.types.Len())
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeFn == nil {
		return nil
	}
	err := a.closeFn()
	a.closeFn = nil
	return err
}

// accessor resolves a type name or key type to its accessor.
func (a *app) accessor(typeName string) (objectstore.Accessor, error) {
	acc, err := a.catalog.Get(typeName)
	if err != nil {
		return nil, errors.Wrapf(err, "known types: %v", a.catalog.List())
	}
	return acc, nil
}

// newLogger writes human-readable logs to stderr at warn level unless
// verbosity is raised, or JSON logs at info level.
func newLogger(jsonLogs bool, verbose int) (*zap.SugaredLogger, error) {
	level := zapcore.WarnLevel
	switch {
	case verbose >= 2:
		level = zapcore.DebugLevel
	case verbose == 1:
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if jsonLogs {
		cfg = zap.NewProductionConfig()
		if verbose == 0 {
			level = zapcore.InfoLevel
		}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
