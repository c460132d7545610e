package cli

import (
	"github.com/spf13/cobra"
)

// newTUICommand creates the tui command for launching the interactive map.
// This is the same as running `pdok-report` without arguments.
func newTUICommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive map",
		Long:  `Open the interactive terminal map for placing, moving and submitting reports.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			return launchTUIFunc(c)
		},
	}
	return cmd
}
