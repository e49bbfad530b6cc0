package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	Kind   string
	Output string
}

// ExportOutput is the JSON payload of the export command.
type ExportOutput struct {
	File string      `json:"file"`
	Kind report.Kind `json:"kind"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <case.yaml>",
		Short: "Write a report of a case as an XLSX workbook",
		Long: `Write the per_diem, travel_ticket or opinion report of a case file as an XLSX workbook.

The opinion report needs the case's president.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", string(report.KindPerDiem), "report kind (per_diem|travel_ticket|opinion)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default <kind>-<record>.xlsx in the current directory)")

	return cmd
}

func runExport(rootOpts *RootOptions, opts *ExportOptions, path string, cmd *cobra.Command) error {
	logger := rootOpts.logger(cmd)

	kind, err := report.ParseKind(opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --kind", err)
	}

	c, err := LoadCase(path)
	if err != nil {
		return err
	}
	f, err := report.NewFormatter(rootOpts.Locale)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid locale", err)
	}

	reports := report.NewService(reconciliation.NewService(c, c, c), c, f)
	r, err := reports.Generate(cmd.Context(), c.RecordID(), kind)
	if err != nil {
		return err
	}

	out := opts.Output
	if out == "" {
		out = report.Filename(r)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := report.WriteXLSX(file, r); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Debug("workbook written", "file", out, "kind", string(kind))

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), ExportOutput{File: out, Kind: kind})
	}
	p := &printer{w: cmd.OutOrStdout()}
	p.printf("wrote %s\n", out)
	return p.err
}
