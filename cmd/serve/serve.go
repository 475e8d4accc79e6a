// Package serve provides the command that runs the web application.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/smartwaste/internal/analysis"
	"github.com/tphakala/smartwaste/internal/conf"
)

// Command creates the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long:  `Load the waste classifier and serve the upload, rewards and community forum pages.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.Serve(cmd.Context(), conf.GetSettings())
		},
	}
}
