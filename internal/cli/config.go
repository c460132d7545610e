package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage the pdok-report configuration file.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(s))
	cmd.AddCommand(newConfigInitCommand(s))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(s *session) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after applying defaults.

Shows which config file was loaded and the final configuration. API keys are
masked unless --show-secrets is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{ShowSecrets: showSecrets})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			if out.File.Exists {
				_, _ = fmt.Fprintf(w, "- %s\n", out.File.Path)
			} else {
				_, _ = fmt.Fprintf(w, "- %s (not found)\n", out.File.Path)
			}
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			_, _ = fmt.Fprint(w, out.Effective)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print API keys unmasked")
	return cmd
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(s *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file",
		Long:  `Write a configuration file with the default settings and comments.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Force: force})
			if err != nil {
				if errors.Is(err, domain.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

// newLogsCommand creates the logs command.
func newLogsCommand(s *session) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries",
		Long:  `Print the log file location followed by its most recent entries.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), usecase.ShowLogsInput{Lines: lines})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, domain.LogFilePath(c.Paths.ConfigDir))
			for _, line := range out.Lines {
				_, _ = fmt.Fprintln(w, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of recent entries (0 = all)")
	return cmd
}
