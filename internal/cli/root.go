// Package cli implements the stanza command line: provisioning (install)
// and a local statement surface (insert, get, void) over the store.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stanza-lrs/stanza/internal/config"
	"github.com/stanza-lrs/stanza/internal/lrs"
	"github.com/stanza-lrs/stanza/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
}

// NewRootCommand creates the root command for the stanza CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stanza",
		Short: "stanza - append-only statement store",
		Long:  "An append-only store for activity statements with voiding, reference chains and filtered retrieval.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides config)")

	cmd.AddCommand(NewInstallCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewVoidCommand(opts))

	return cmd
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	return cfg, nil
}

// openService opens the store and binds a service for the configured
// principal. The CLI principal holds the full capability set.
func openService(opts *RootOptions) (*store.Store, *lrs.Service, config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, config.Config{}, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("open store: %w", err)
	}

	auth := &lrs.StaticAuth{
		User: cfg.User,
		Permissions: []string{
			lrs.CapRead, lrs.CapReadMine, lrs.CapWrite, lrs.CapDefine, lrs.CapSuper,
		},
	}

	svc := lrs.NewService(st, auth, lrs.Config{
		GetLimit:       cfg.StatementGetLimit,
		DefaultFormat:  cfg.DefaultStatementGetFormat,
		AttachmentBase: cfg.AttachmentBase,
	})

	return st, svc, cfg, nil
}
