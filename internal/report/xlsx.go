package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetSummary   = "Resumo"
	SheetBreakdown = "Detalhamento"
	SheetTickets   = "Bilhetes"
	SheetDocuments = "Documentos"
)

// ContentTypeXLSX is the media type of the exported workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var kindTitles = map[Kind]string{
	KindPerDiem:      "Prestação de contas de diárias",
	KindTravelTicket: "Prestação de contas de passagens",
	KindOpinion:      "Parecer",
}

// Filename returns the attachment name of a report workbook
func Filename(r *Report) string {
	return fmt.Sprintf("%s-%s.xlsx", r.Kind, r.RecordID)
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (s *sheetWriter) add(values ...interface{}) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.sheet, cell, &values)
}

// amount is a numeric cell value so spreadsheet formulas work on it
func amount(m Money) interface{} {
	d, err := decimal.NewFromString(m.Value)
	if err != nil {
		return m.Value
	}
	return d.InexactFloat64()
}

// WriteXLSX writes the report as a workbook: a summary sheet plus one sheet
// per list the report carries.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if err := writeSummary(&sheetWriter{f: f, sheet: SheetSummary}, r); err != nil {
		return err
	}

	if r.Totals != nil && len(r.Totals.Lines) > 0 {
		s, err := newSheet(f, SheetBreakdown, "Item", "Quantidade", "Valor unitário", "Total")
		if err != nil {
			return err
		}
		for _, l := range r.Totals.Lines {
			if err := s.add(l.Label, l.Quantity, amount(l.UnitValue), amount(l.LineTotal)); err != nil {
				return err
			}
		}
	}

	if len(r.Tickets) > 0 {
		s, err := newSheet(f, SheetTickets, "Bilhete", "Trecho", "Valor")
		if err != nil {
			return err
		}
		for _, t := range r.Tickets {
			if err := s.add(t.Ticket, t.Direction, amount(t.Amount)); err != nil {
				return err
			}
		}
	}

	if len(r.Documents) > 0 {
		s, err := newSheet(f, SheetDocuments, "Tipo", "Descrição", "Data", "Valor")
		if err != nil {
			return err
		}
		for _, d := range r.Documents {
			if err := s.add(d.Type, d.Description, d.Date, amount(d.Amount)); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// XLSX renders the report workbook into memory
func XLSX(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, headings ...interface{}) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	s := &sheetWriter{f: f, sheet: name}
	return s, s.add(headings...)
}

func writeSummary(s *sheetWriter, r *Report) error {
	rows := [][]interface{}{
		{kindTitles[r.Kind]},
		{"Registro", r.RecordID},
		{"Servidor", r.Servant.Name},
		{"Cargo", r.Servant.RoleName},
	}
	if r.President != nil {
		rows = append(rows, []interface{}{"Presidente", r.President.Name})
	}
	if r.Role != nil {
		rows = append(rows,
			[]interface{}{"Diária no estado", amount(r.Role.RateInState)},
			[]interface{}{"Diária fora do estado", amount(r.Role.RateOutOfState)},
		)
	}
	if r.Advance != nil {
		rows = append(rows,
			[]interface{}{"Adiantamento nº", r.Advance.Number},
			[]interface{}{"Empenho nº", r.Advance.CommitmentNumber},
			[]interface{}{"Data do adiantamento", r.Advance.Date},
			[]interface{}{"Valor do adiantamento", amount(r.Advance.Amount)},
		)
	}
	if r.Totals != nil {
		rows = append(rows,
			[]interface{}{"Total de diárias", amount(r.Totals.TotalDaysAmount)},
			[]interface{}{"Total de refeições", amount(r.Totals.TotalMealsAmount)},
			[]interface{}{"Total geral", amount(r.Totals.GrandTotal)},
			[]interface{}{"Diferença", amount(r.Totals.Difference)},
		)
	}
	if r.TicketSummary != nil {
		rows = append(rows,
			[]interface{}{"Total de bilhetes", amount(r.TicketSummary.TotalTickets)},
			[]interface{}{"Quantidade de bilhetes", r.TicketSummary.TicketCount},
			[]interface{}{"Valor a devolver", amount(r.TicketSummary.AmountToReturn)},
		)
	}
	if r.RequiresBoardMemberSignature != nil {
		sign := "Não"
		if *r.RequiresBoardMemberSignature {
			sign = "Sim"
		}
		rows = append(rows, []interface{}{"Assinatura de membro da mesa", sign})
	}

	for _, row := range rows {
		if err := s.add(row...); err != nil {
			return err
		}
	}
	return nil
}
