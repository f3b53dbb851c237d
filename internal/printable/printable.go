// Package printable renders stored mistakes as a PDF review sheet.
package printable

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mcqhub/mcq/internal/domain/question"
)

// Sheet lays out the given questions on A4 pages with the correct choice
// marked and the explanation underneath each one.
func Sheet(items []question.Question) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Mistake Review", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Mistake Review", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	subtitle := fmt.Sprintf("%d questions, exported %s", len(items), time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 6, tr(subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(items) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No mistakes recorded.", "", 1, "C", false, 0, "")
		return pdf.OutputBytes()
	}
	for i, q := range items {
		writeQuestion(pdf, tr, i, q)
	}
	return pdf.OutputBytes()
}

func writeQuestion(pdf *fpdf.Fpdf, tr func(string) string, i int, q question.Question) {
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%d. [%s]", i+1, q.Topic("General"))), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(q.Text), "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	for ci, choice := range q.Choices {
		marker := "  "
		if ci == q.Answer {
			marker = "> "
		}
		pdf.MultiCell(0, 5.5, tr(fmt.Sprintf("%s%s) %s", marker, choiceLetter(ci), choice)), "", "L", false)
	}
	if q.Explanation != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, tr("Why: "+q.Explanation), "", "L", false)
		pdf.SetTextColor(40, 40, 40)
	}
	pdf.Ln(3)
}

// choiceLetter labels choices A through Z, then plain numbers.
func choiceLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}
