package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkhive <command> <subcommand> [flags]",
		Short: "Bookmark and feed aggregation admin service",
		Long: heredoc.Doc(`
			Admin backend for managing site login configurations,
			credentials, feeds, and bookmarks.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: heredoc.Doc(`
			$ linkhive server start
			$ linkhive server migrate
			$ linkhive job run refresh_feeds
		`),
	}

	cmd.AddCommand(
		ServerCmd(),
		JobCmd(),
	)

	return cmd
}
