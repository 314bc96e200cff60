// Package cli implements the infomedia command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/infomedia-harvester/internal/app"
	"github.com/Adda-Baaj/infomedia-harvester/internal/config"
	"github.com/Adda-Baaj/infomedia-harvester/internal/logger"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/infomedia"
)

// session carries what PersistentPreRunE loaded to the subcommands.
type session struct {
	verbose bool
	cfg     *config.Config
	log     logger.Logger
}

func (s *session) connector() (*infomedia.Connector, error) {
	return app.NewConnector(s.cfg, s.log)
}

// NewRootCommand builds the infomedia command tree.
func NewRootCommand() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "infomedia",
		Short: "Query the Infomedia article API",
		Long: `infomedia searches and fetches articles from the Infomedia API.

Connection settings are read from the environment (INFOMEDIA_URL,
INFOMEDIA_USERNAME, INFOMEDIA_PASSWORD) or configs/.env.

Example usage:
  infomedia search --source pol --from 2019-01-13          # ids published that day
  infomedia search --source pol --source bma --duration 48h
  infomedia fetch e70a7343 e70a7334 --format xml
  infomedia harvest national                              # one harvest pass`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if s.verbose {
				cfg.LogLevel = "debug"
			}
			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			s.cfg = cfg
			s.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
	}

	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "log requests and timings at debug level")

	root.AddCommand(
		newSearchCommand(s),
		newFetchCommand(s),
		newHarvestCommand(s),
	)
	return root
}
