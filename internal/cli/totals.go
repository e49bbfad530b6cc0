package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
)

// TotalsOutput is the JSON payload of the totals command.
type TotalsOutput struct {
	RecordID      string                   `json:"record_id"`
	Servant       string                   `json:"servant"`
	Role          string                   `json:"role,omitempty"`
	Totals        report.TotalsView        `json:"totals"`
	TicketSummary report.TicketSummaryView `json:"ticket_summary"`
}

// NewTotalsCommand creates the totals command.
func NewTotalsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "totals <case.yaml>",
		Short: "Compute per-diem totals and the ticket summary of a case",
		Long: `Compute the per-diem reconciliation and the travel-ticket summary of a case file.

A negative difference means the servant returns money; a positive one
means the servant is owed the difference.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTotals(rootOpts, args[0], cmd)
		},
	}
}

func runTotals(opts *RootOptions, path string, cmd *cobra.Command) error {
	logger := opts.logger(cmd)

	c, err := LoadCase(path)
	if err != nil {
		return err
	}
	f, err := report.NewFormatter(opts.Locale)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid locale", err)
	}

	rec, err := reconciliation.NewService(c, c, c).Reconcile(cmd.Context(), c.RecordID())
	if err != nil {
		return err
	}
	logger.Debug("reconciled", "record", c.RecordID(), "grandTotal", rec.Totals.GrandTotal.String())

	out := TotalsOutput{
		RecordID:      c.RecordID(),
		Servant:       rec.Servant.Name,
		Totals:        report.NewTotalsView(rec.Totals, f),
		TicketSummary: report.NewTicketSummaryView(rec.Tickets, f),
	}
	if rec.Role != nil {
		out.Role = rec.Role.Name
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	return writeTotalsText(cmd.OutOrStdout(), out)
}

func writeTotalsText(w io.Writer, out TotalsOutput) error {
	role := out.Role
	if role == "" {
		role = "role not found"
	}

	p := &printer{w: w}
	p.printf("Record %s\n", out.RecordID)
	p.printf("Servant %s (%s)\n", out.Servant, role)
	p.printf("\nPer diem\n")
	for _, l := range out.Totals.Lines {
		p.printf("  %-24s %3d x %10s = %10s\n", l.Label, l.Quantity, l.UnitValue.Display, l.LineTotal.Display)
	}
	p.row("Total diárias", out.Totals.TotalDaysAmount)
	p.row("Total refeições", out.Totals.TotalMealsAmount)
	p.row("Total geral", out.Totals.GrandTotal)
	p.row("Adiantamento", out.Totals.AdvanceAmount)
	p.row("Diferença", out.Totals.Difference)

	p.printf("\nTickets (%d)\n", out.TicketSummary.TicketCount)
	p.row("Adiantamento", out.TicketSummary.AdvanceAmount)
	p.row("Total bilhetes", out.TicketSummary.TotalTickets)
	p.row("Diferença", out.TicketSummary.Difference)
	p.row("Valor a devolver", out.TicketSummary.AmountToReturn)
	return p.err
}

// printer keeps the first write error so text renderers can ignore it per line
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) row(label string, m report.Money) {
	p.printf("  %-24s %10s\n", label, m.Display)
}
