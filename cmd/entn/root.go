package main

import (
	"fmt"
	"os"

	"github.com/dialektlab/entn/internal/cleanup"
	"github.com/dialektlab/entn/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func execute() {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	scrapeOpts := scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "entn",
		Short: "English to Tunisian translation scraper",
		Long: "entn converts a TSV of English sentences into translated pairs by\n" +
			"querying the Klemy translation service. Progress is checkpointed so\n" +
			"an interrupted run resumes where it left off.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, &scrapeOpts)
		},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")

	addScrapeFlags(cmd, &scrapeOpts)

	cmd.AddCommand(
		newScrapeCmd(),
		newRetryFailedCmd(),
		newSplitCmd(),
	)

	return cmd
}
