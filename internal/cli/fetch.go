package cli

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/infomedia-harvester/pkg/infomedia"
)

func newFetchCommand(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "fetch <article-id>...",
		Short: "Fetch full articles by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "xml" {
				return fmt.Errorf("unsupported --format %q (json or xml)", format)
			}
			conn, err := s.connector()
			if err != nil {
				return err
			}

			list, err := conn.GetArticlesByID(cmd.Context(), args...)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			return writeArticles(cmd.OutOrStdout(), list, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or xml")
	return cmd
}

func writeArticles(w io.Writer, list *infomedia.ArticleList, format string) error {
	if format == "xml" {
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("encode xml: %w", err)
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
