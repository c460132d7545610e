package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/infra/proxy"
	"github.com/osmnl/pdok-report/internal/usecase"
)

// newSubmitCommand creates the submit command.
func newSubmitCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit pending reports",
		Long: `Upload every pending report to the report API.

Accepted reports are removed from the pending reports; rejected ones stay so
they can be corrected and submitted again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			if err := loadSession(c); err != nil {
				return err
			}

			out, runErr := c.SubmitReportsUseCase().Execute(cmd.Context(), usecase.SubmitReportsInput{})
			if saveErr := c.SaveSession(); saveErr != nil {
				return errors.Join(runErr, fmt.Errorf("save pending reports: %w", saveErr))
			}
			if out != nil {
				w := cmd.OutOrStdout()
				for _, sr := range out.Submitted {
					_, _ = fmt.Fprintf(w, "Submitted %s: %s\n", sr.Report.Key(), sr.Reference)
				}
				for _, fr := range out.Failed {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", fr.Report.Key(), fr.Err)
				}
				if len(out.Failed) > 0 && runErr == nil {
					runErr = fmt.Errorf("%d report(s) not submitted", len(out.Failed))
				}
			}
			return runErr
		},
	}
	return cmd
}

// newValidateKeyCommand creates the validate-key command.
func newValidateKeyCommand(s *session) *cobra.Command {
	var mode, key string

	cmd := &cobra.Command{
		Use:   "validate-key",
		Short: "Check an API key against the report API",
		Long: `Check whether the report API accepts an API key.

Without --key the configured key for the mode is checked. Proxy modes need no key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			in := usecase.ValidateKeyInput{Key: key}
			if mode != "" {
				m, err := domain.ParseAPIMode(mode)
				if err != nil {
					return fmt.Errorf("%w: %s", err, mode)
				}
				in.Mode = m
			}

			out, err := c.ValidateKeyUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if !out.Valid {
				return fmt.Errorf("API key rejected for %s", out.Mode)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "API key accepted for %s\n", out.Mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "API mode to check (default: configured mode)")
	cmd.Flags().StringVar(&key, "key", "", "API key to check (default: configured key)")
	return cmd
}

// newProxyCommand creates the proxy command.
func newProxyCommand(s *session) *cobra.Command {
	var listen string
	var acceptance bool

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Serve the report API with the configured key",
		Long: `Forward requests to the PDOK report API, adding the configured API key.

Clients in a proxy API mode can then submit reports without a key of their own.
Idempotent requests are retried when the API fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}

			upstreamMode := domain.APIPDOKProduction
			if acceptance {
				upstreamMode = domain.APIPDOKAcceptance
			}
			srv, err := proxy.New(proxy.Options{
				Logger:   c.Log,
				Upstream: c.Config.API.BaseURL(upstreamMode),
				Key:      c.Config.API.Token(upstreamMode),
			})
			if err != nil {
				return fmt.Errorf("proxy: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Forwarding http://%s to %s\n", listen, c.Config.API.BaseURL(upstreamMode))
			if err := srv.ListenAndServe(ctx, listen); err != nil {
				return err
			}
			forwarded, failed := srv.Stats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopped after %d request(s), %d failed\n", forwarded, failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", domain.DefaultProxyListenAddress, "Address to listen on")
	cmd.Flags().BoolVar(&acceptance, "acceptance", false, "Forward to the acceptance API")
	return cmd
}
