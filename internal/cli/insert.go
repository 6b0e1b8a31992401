package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stanza-lrs/stanza/internal/lrs"
	"github.com/stanza-lrs/stanza/internal/statement"
	"github.com/stanza-lrs/stanza/internal/validate"
)

// NewInsertCommand submits one statement or a batch from a JSON file
// (or stdin with "-"). Payloads are schema-checked before the pipeline.
func NewInsertCommand(opts *RootOptions) *cobra.Command {
	var skipValidation bool

	cmd := &cobra.Command{
		Use:   "insert <file|->",
		Short: "Insert statements from a JSON file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payloads, err := readPayloads(args[0])
			if err != nil {
				return err
			}

			if !skipValidation {
				validator, err := validate.NewValidator()
				if err != nil {
					return err
				}
				for i, p := range payloads {
					if err := validator.ValidateStatement(p); err != nil {
						return fmt.Errorf("statement %d: %w", i, err)
					}
				}
			}

			st, svc, _, err := openService(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			docs := make([]statement.Document, len(payloads))
			for i, p := range payloads {
				docs[i] = statement.Document(p)
			}

			var result *lrs.Result
			if len(docs) == 1 {
				result, err = svc.InsertOne(cmd.Context(), docs[0])
			} else {
				result, err = svc.InsertMultiple(cmd.Context(), docs)
			}
			if err != nil {
				return err
			}

			for _, env := range result.Statements {
				printSuccess(cmd.OutOrStdout(), "stored %s (seq %d)", env.StatementID, env.Seq)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "no-validate", false, "skip schema validation")

	return cmd
}

// readPayloads decodes a single statement object or an array of them.
func readPayloads(path string) ([]map[string]any, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()
		reader = f
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var batch []map[string]any
	if err := json.Unmarshal(data, &batch); err == nil {
		return batch, nil
	}

	var single map[string]any
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return []map[string]any{single}, nil
}
