package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newSearchCommand(s *session) *cobra.Command {
	var (
		codes    []string
		from     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List the ids of articles published in a time window",
		Long: `Search pages through every result of the query and prints the sorted,
de-duplicated article ids as a JSON array.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseFrom(from, duration, time.Now())
			if err != nil {
				return err
			}
			conn, err := s.connector()
			if err != nil {
				return err
			}

			ids, err := conn.SearchArticleIDs(cmd.Context(), start, duration, codes...)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ids.Sorted())
		},
	}

	cmd.Flags().StringArrayVarP(&codes, "source", "s", nil, "source code to search, repeatable (e.g. pol)")
	cmd.Flags().StringVar(&from, "from", "", "window start, RFC3339 or YYYY-MM-DD (default: now minus duration)")
	cmd.Flags().DurationVar(&duration, "duration", 24*time.Hour, "window length")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// parseFrom accepts RFC3339 timestamps or plain dates, which mean midnight UTC.
func parseFrom(v string, duration time.Duration, now time.Time) (time.Time, error) {
	if v == "" {
		return now.UTC().Add(-duration), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --from %q: want RFC3339 or %s", v, dateLayout)
	}
	return t, nil
}
