package cli

import (
	"github.com/spf13/cobra"
)

// NewInstallCommand provisions the schema and the uniqueness constraint
// backing statement immutability. Safe to run repeatedly.
func NewInstallCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Provision the statement store schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cfg, err := openService(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Install(cmd.Context()); err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "installed schema and indexes at %s", cfg.DBPath)
			return nil
		},
	}
}
