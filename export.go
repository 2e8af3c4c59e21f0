package bankledger

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

// Statement exports for customers who want a file rather than a terminal
// report. Both writers render the same lines the markdown renderer shows.

// WritePDF renders the statement as a single-table A4 PDF.
func (st *Statement) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Statement %s", st.Account.Number))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Period %s to %s", st.From, st.To))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Opening balance %s, closing balance %s", st.Opening, st.Closing))
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(35, 7, "Date")
	pdf.Cell(30, 7, "Type")
	pdf.Cell(60, 7, "Description")
	pdf.Cell(30, 7, "Amount")
	pdf.Cell(30, 7, "Balance")
	pdf.Ln(7)

	// Table rows
	pdf.SetFont("Arial", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range st.Lines {
		pdf.CellFormat(35, 7, line.Time.Format("2006-01-02 15:04"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, string(line.Type), "1", 0, "", false, 0, "")
		pdf.CellFormat(60, 7, line.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, tr(line.Amount.SignedString()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, tr(line.Balance.String()), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("cannot render statement pdf: %w", err)
	}
	return nil
}

// WriteXLSX renders the statement as a one-sheet spreadsheet.
func (st *Statement) WriteXLSX(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statement")
	if err != nil {
		return fmt.Errorf("cannot create statement sheet: %w", err)
	}

	// Header row
	row := sheet.AddRow()
	row.AddCell().SetValue("Date")
	row.AddCell().SetValue("Type")
	row.AddCell().SetValue("Description")
	row.AddCell().SetValue("Counterparty")
	row.AddCell().SetValue("Amount")
	row.AddCell().SetValue("Balance")

	// Data rows
	for _, line := range st.Lines {
		row = sheet.AddRow()
		row.AddCell().SetValue(line.Time.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(string(line.Type))
		row.AddCell().SetValue(line.Description)
		row.AddCell().SetValue(line.Counterparty)
		row.AddCell().SetValue(line.Amount.Amount().StringFixed(2))
		row.AddCell().SetValue(line.Balance.Amount().StringFixed(2))
	}

	// Totals
	row = sheet.AddRow()
	row.AddCell().SetValue("Totals")
	row.AddCell()
	row.AddCell()
	row.AddCell()
	row.AddCell().SetValue(st.TotalIn.Sub(st.TotalOut).Amount().StringFixed(2))
	row.AddCell().SetValue(st.Closing.Amount().StringFixed(2))

	if err := file.Write(w); err != nil {
		return fmt.Errorf("cannot render statement xlsx: %w", err)
	}
	return nil
}
