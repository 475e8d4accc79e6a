// Package classify provides the command that classifies image files offline.
package classify

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/smartwaste/internal/analysis"
	"github.com/tphakala/smartwaste/internal/conf"
)

// Command creates the classify command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [image...]",
		Short: "Classify image files",
		Long:  `Classify one or more JPEG or PNG files and print the waste category and disposal method for each.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := conf.GetSettings()
			model, _, err := analysis.LoadClassifier(cmd.Context(), settings, nil)
			if err != nil {
				return err
			}
			defer func() { _ = model.Close() }()

			results := make([]analysis.FileResult, 0, len(args))
			for _, path := range args {
				res, err := analysis.ClassifyFile(cmd.Context(), model, path)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			return analysis.WriteResults(cmd.OutOrStdout(), results)
		},
	}
}
