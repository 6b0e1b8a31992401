package cli

import (
	"github.com/spf13/cobra"

	"github.com/stanza-lrs/stanza/internal/statement"
)

// NewVoidCommand submits a voiding statement targeting an existing
// statement id.
func NewVoidCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "void <statement-id>",
		Short: "Void a statement (logical deletion)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetID, err := statement.NormalizeUUID(args[0])
			if err != nil {
				return err
			}

			st, svc, cfg, err := openService(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			voiding := statement.Document{
				"actor": map[string]any{
					"objectType": "Agent",
					"account": map[string]any{
						"homePage": "http://localhost",
						"name":     cfg.User,
					},
				},
				"verb": map[string]any{
					"id": statement.VoidingVerb,
				},
				"object": map[string]any{
					"objectType": "StatementRef",
					"id":         targetID,
				},
			}

			result, err := svc.InsertOne(cmd.Context(), voiding)
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "voided %s (voiding statement %s)",
				targetID, result.Statements[0].StatementID)
			return nil
		},
	}

	return cmd
}
