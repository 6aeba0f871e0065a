package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// A4 portrait layout, in millimetres.
const (
	pdfLeft      = 20.0
	pdfRight     = 190.0
	pdfTextX     = 50.0
	pdfTextWidth = 140.0
	pdfFirstY    = 82.0
	pdfBottom    = 270.0
	pdfTopY      = 20.0
)

var (
	pdfAccent = [3]int{99, 102, 241}
	pdfMuted  = [3]int{100, 100, 100}
	pdfBody   = [3]int{30, 30, 30}
)

// PDF renders a printable report: a header block and one entry per
// annotation with its time in a badge. Core fonts only cover Latin-1, so
// runes outside it (most emoji) are dropped.
func PDF(s Snapshot) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(s.generatedAt())
	pdf.SetTitle(s.title(), true)
	pdf.SetCreator(ToolName, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(x, y float64, str string) {
		pdf.Text(x, y, tr(latin1(str)))
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
	text(pdfLeft, 25, ToolName)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(pdfMuted[0], pdfMuted[1], pdfMuted[2])
	text(pdfLeft, 38, "Video: "+s.title())
	text(pdfLeft, 46, "Platform: "+s.Video.Provider.DisplayName())
	text(pdfLeft, 54, "Date: "+s.generatedAt().Format(dateLayout))
	text(pdfLeft, 62, fmt.Sprintf("Total items: %d", len(s.Annotations)))

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdfLeft, 70, pdfRight, 70)

	y := pdfFirstY
	for _, a := range s.Annotations {
		if y > pdfBottom {
			pdf.AddPage()
			y = pdfTopY
		}

		pdf.SetFillColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
		pdf.RoundedRect(pdfLeft, y-5, 25, 8, 2, "1234", "F")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(255, 255, 255)
		text(pdfLeft+2, y, "["+a.Time()+"]")

		content := strings.TrimSpace(latin1(a.Emoji + " " + a.Text))
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(pdfBody[0], pdfBody[1], pdfBody[2])
		lines := pdf.SplitText(tr(content), pdfTextWidth)
		for i, line := range lines {
			pdf.Text(pdfTextX, y+float64(i)*5, line)
		}
		y += 12 + float64(len(lines))*5
	}

	var b bytes.Buffer
	if err := pdf.Output(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// latin1 removes runes the core PDF fonts cannot draw.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return -1
		}
		return r
	}, s)
}
