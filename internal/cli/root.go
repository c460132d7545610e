// Package cli provides the command-line interface for pdok-report.
package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/osmnl/pdok-report/internal/app"
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/tui"
)

// Command group IDs.
const (
	groupReports = "reports"
	groupAPI     = "api"
	groupSetup   = "setup"
)

// ContainerFactory builds the application container for a command.
type ContainerFactory func(opts app.Options) (*app.Container, error)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// session holds the container shared by the running command.
type session struct {
	factory    ContainerFactory
	c          *app.Container
	configPath string
	apiMode    string
}

// container returns the container built in PersistentPreRunE.
func (s *session) container() (*app.Container, error) {
	if s.c == nil {
		return nil, errors.New("application not initialized")
	}
	return s.c, nil
}

// NewRootCommand creates the root command for pdok-report.
// The container is built lazily once the global flags are parsed.
func NewRootCommand(factory ContainerFactory, version string) *cobra.Command {
	s := &session{factory: factory}

	root := &cobra.Command{
		Use:   "pdok-report",
		Short: "Report map corrections to the PDOK registries",
		Long: `pdok-report places correction reports for the Dutch base registries
(BAG, BGT, BRT, ...) on a map and submits them to the PDOK report API.

Running without a command opens the interactive map. Reports that have not
been submitted are kept between sessions.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if s.factory == nil {
				return nil
			}
			opts := app.Options{
				ConfigPath: s.configPath,
				Headless:   cmd.Parent() != nil && cmd.Name() != "tui",
			}
			if s.apiMode != "" {
				mode, err := domain.ParseAPIMode(s.apiMode)
				if err != nil {
					return fmt.Errorf("%w: %s", err, s.apiMode)
				}
				opts.APIMode = mode
			}
			c, err := s.factory(opts)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			s.c = c

			for _, w := range c.Config.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if s.c == nil {
				return nil
			}
			return s.c.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(s.c)
		},
	}

	root.PersistentFlags().StringVarP(&s.configPath, "config", "c", "", "Path to config.toml")
	root.PersistentFlags().StringVar(&s.apiMode, "api", "", "API mode: pdokProduction, pdokAcceptance, proxyProduction or proxyAcceptance")

	root.AddGroup(
		&cobra.Group{ID: groupReports, Title: "Report Commands:"},
		&cobra.Group{ID: groupAPI, Title: "API Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	reportCmds := []*cobra.Command{
		newListCommand(s),
		newDownloadCommand(s),
		newImportCommand(s),
		newExportCommand(s),
		newTUICommand(s),
	}
	for _, cmd := range reportCmds {
		cmd.GroupID = groupReports
		root.AddCommand(cmd)
	}

	apiCmds := []*cobra.Command{
		newSubmitCommand(s),
		newValidateKeyCommand(s),
		newProxyCommand(s),
	}
	for _, cmd := range apiCmds {
		cmd.GroupID = groupAPI
		root.AddCommand(cmd)
	}

	setupCmds := []*cobra.Command{
		newConfigCommand(s),
		newLogsCommand(s),
	}
	for _, cmd := range setupCmds {
		cmd.GroupID = groupSetup
		root.AddCommand(cmd)
	}

	return root
}

// launchTUI runs the interactive map until the user quits.
// Unsent reports are loaded before and saved after the session.
func launchTUI(c *app.Container) error {
	if c == nil {
		return errors.New("application not initialized")
	}
	if _, err := c.LoadSession(); err != nil {
		return fmt.Errorf("load pending reports: %w", err)
	}
	model := tui.New(c)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, runErr := p.Run()
	if err := c.SaveSession(); err != nil {
		return errors.Join(runErr, fmt.Errorf("save pending reports: %w", err))
	}
	return runErr
}
