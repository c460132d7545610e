package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osmnl/pdok-report/internal/app"
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/usecase"
)

// reportJSON is the --json representation of a report.
type reportJSON struct {
	Confirmed   *confirmedJSON `json:"confirmed,omitempty"`
	Kind        string         `json:"kind"`
	Key         string         `json:"key"`
	Registry    string         `json:"registry,omitempty"`
	Description string         `json:"description"`
	Lat         float64        `json:"lat"`
	Lon         float64        `json:"lon"`
}

type confirmedJSON struct {
	ReportedAt         string `json:"reportedAt,omitempty"`
	RegistrationNumber string `json:"registrationNumber"`
	Status             string `json:"status"`
	Maintainer         string `json:"maintainer,omitempty"`
	Explanation        string `json:"explanation,omitempty"`
}

func toReportJSON(r *domain.Report, dateFormat string) reportJSON {
	pos := r.Position()
	out := reportJSON{
		Kind:        r.Kind().String(),
		Key:         r.Key(),
		Registry:    r.Registry(),
		Description: r.Description(),
		Lat:         pos.Lat,
		Lon:         pos.Lon,
	}
	if c := r.Confirmed(); c != nil {
		out.Confirmed = &confirmedJSON{
			RegistrationNumber: c.RegistrationNumber,
			Status:             c.StatusCode.Display(),
			Maintainer:         c.MaintainerName,
			Explanation:        c.Explanation,
		}
		if !c.ReportedAt.IsZero() {
			out.Confirmed.ReportedAt = c.ReportedAt.Format(dateFormat)
		}
	}
	return out
}

// printReports writes reports as a table or, with asJSON, as a JSON array.
func printReports(w io.Writer, reports []*domain.Report, cfg *domain.Config, asJSON bool) error {
	if asJSON {
		items := make([]reportJSON, 0, len(reports))
		for _, r := range reports {
			items = append(items, toReportJSON(r, cfg.Display.DateFormat))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(reports) == 0 {
		_, _ = fmt.Fprintln(w, "No reports.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tREGISTRY\tSTATUS\tPOSITION\tDESCRIPTION")
	for _, r := range reports {
		status := "pending"
		if c := r.Confirmed(); c != nil {
			status = c.StatusCode.Display()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Key(),
			orDash(r.Registry()),
			status,
			r.Position(),
			truncate(firstLine(r.Description()), 50),
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// loadSession restores the pending reports of the previous session.
func loadSession(c *app.Container) error {
	if _, err := c.LoadSession(); err != nil {
		return fmt.Errorf("load pending reports: %w", err)
	}
	return nil
}

// newListCommand creates the list command.
func newListCommand(s *session) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending reports",
		Long: `List the reports waiting to be submitted.

With --file, list the reports in an exported report file instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}

			if file != "" {
				if _, err := c.ImportReportsUseCase().Execute(cmd.Context(), usecase.ImportReportsInput{Path: file}); err != nil {
					return err
				}
			} else if err := loadSession(c); err != nil {
				return err
			}

			out, err := c.ListReportsUseCase().Execute(cmd.Context(), usecase.ListReportsInput{PendingOnly: true})
			if err != nil {
				return err
			}
			return printReports(cmd.OutOrStdout(), out.Reports, c.Config, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Report file to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

// newDownloadCommand creates the download command.
func newDownloadCommand(s *session) *cobra.Command {
	var bbox string
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download registered reports in an area",
		Long: `Download the reports registered in a bounding box and print them.

The box is given as minLon,minLat,maxLon,maxLat in WGS84 degrees.`,
		Example: `  pdok-report download --bbox 4.88,52.36,4.92,52.38
  pdok-report download --bbox 4.88,52.36,4.92,52.38 --status NEW,APPROVED --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			bounds, err := domain.ParseBounds(bbox)
			if err != nil {
				return err
			}
			codes, err := parseStatuses(statuses)
			if err != nil {
				return err
			}

			if _, err := c.DownloadAreaUseCase().Execute(cmd.Context(), usecase.DownloadAreaInput{Bounds: bounds}); err != nil {
				return err
			}
			out, err := c.ListReportsUseCase().Execute(cmd.Context(), usecase.ListReportsInput{
				Statuses:    codes,
				VisibleOnly: true,
			})
			if err != nil {
				return err
			}
			return printReports(cmd.OutOrStdout(), out.Reports, c.Config, asJSON)
		},
	}

	cmd.Flags().StringVar(&bbox, "bbox", "", "Bounding box minLon,minLat,maxLon,maxLat")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only show reports with these status codes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}

func parseStatuses(values []string) ([]domain.StatusCode, error) {
	codes := make([]domain.StatusCode, 0, len(values))
	for _, v := range values {
		code := domain.StatusCode(strings.ToUpper(strings.TrimSpace(v)))
		if !isStatusCode(code) {
			return nil, fmt.Errorf("unknown status %q", v)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func isStatusCode(code domain.StatusCode) bool {
	for _, c := range domain.AllStatusCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// newImportCommand creates the import command.
func newImportCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add reports from a report file",
		Long:  `Add the reports of an exported report file to the pending reports.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			if err := loadSession(c); err != nil {
				return err
			}
			out, err := c.ImportReportsUseCase().Execute(cmd.Context(), usecase.ImportReportsInput{Path: args[0]})
			if err != nil {
				return err
			}
			if err := c.SaveSession(); err != nil {
				return fmt.Errorf("save pending reports: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d report(s) from %s\n", len(out.Reports), args[0])
			return nil
		},
	}
	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write pending reports to a report file",
		Long:  `Write the pending reports to a report file that can be imported later or elsewhere.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			if err := loadSession(c); err != nil {
				return err
			}
			out, err := c.ExportReportsUseCase().Execute(cmd.Context(), usecase.ExportReportsInput{Path: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d report(s) to %s\n", out.Count, out.Path)
			return nil
		},
	}
	return cmd
}
