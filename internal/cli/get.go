package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stanza-lrs/stanza/internal/lrs"
)

// NewGetCommand queries statements. Flags map one-to-one onto the
// recognized filter parameters; the typed parameter parser does the
// validation.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	var (
		statementID       string
		voidedStatementID string
		agent             string
		verb              string
		activity          string
		registration      string
		relatedActivities bool
		relatedAgents     bool
		since             string
		until             string
		sinceID           int64
		untilID           int64
		limit             int
		format            string
		ascending         bool
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Query statements with filters and pagination",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := url.Values{}
			setIf := func(name, v string) {
				if v != "" {
					values.Set(name, v)
				}
			}
			setIf("statementId", statementID)
			setIf("voidedStatementId", voidedStatementID)
			setIf("agent", agent)
			setIf("verb", verb)
			setIf("activity", activity)
			setIf("registration", registration)
			setIf("since", since)
			setIf("until", until)
			setIf("format", format)
			if relatedActivities {
				values.Set("related_activities", "true")
			}
			if relatedAgents {
				values.Set("related_agents", "true")
			}
			if sinceID > 0 {
				values.Set("since_id", strconv.FormatInt(sinceID, 10))
			}
			if untilID > 0 {
				values.Set("until_id", strconv.FormatInt(untilID, 10))
			}
			if limit > 0 {
				values.Set("limit", strconv.Itoa(limit))
			}
			if ascending {
				values.Set("ascending", "true")
			}

			params, err := lrs.ParseParams(values)
			if err != nil {
				return err
			}

			st, svc, _, err := openService(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := svc.Get(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, env := range result.Statements {
				data, err := json.MarshalIndent(env.Statement, "", "  ")
				if err != nil {
					return fmt.Errorf("render statement %s: %w", env.StatementID, err)
				}
				fmt.Fprintln(out, string(data))
			}

			printSummary(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&statementID, "statement-id", "", "single statement lookup")
	cmd.Flags().StringVar(&voidedStatementID, "voided-statement-id", "", "single voided statement lookup")
	cmd.Flags().StringVar(&agent, "agent", "", "JSON-encoded agent filter")
	cmd.Flags().StringVar(&verb, "verb", "", "verb IRI filter")
	cmd.Flags().StringVar(&activity, "activity", "", "activity IRI filter")
	cmd.Flags().StringVar(&registration, "registration", "", "registration UUID filter")
	cmd.Flags().BoolVar(&relatedActivities, "related-activities", false, "expand activity filter across context and references")
	cmd.Flags().BoolVar(&relatedAgents, "related-agents", false, "expand agent filter across context and references")
	cmd.Flags().StringVar(&since, "since", "", "inclusive lower bound on stored time (ISO-8601)")
	cmd.Flags().StringVar(&until, "until", "", "inclusive upper bound on stored time (ISO-8601)")
	cmd.Flags().Int64Var(&sinceID, "since-id", 0, "strict lower bound on the cursor key")
	cmd.Flags().Int64Var(&untilID, "until-id", 0, "strict upper bound on the cursor key")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (clamped to the configured maximum)")
	cmd.Flags().StringVar(&format, "format", "", "output format")
	cmd.Flags().BoolVar(&ascending, "ascending", false, "sort ascending by cursor key")

	return cmd
}
