package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"

	"github.com/local/resumeai/internal/config"
)

// Layout constants (mm, A4 portrait).
const (
	pageMargin   = 15.0
	contentWidth = 210 - 2*pageMargin
	lineHeight   = 4.8
	bulletIndent = 5.0
	columnGap    = 4.0
)

// Theme colors (dark navy accent, matching the executive template).
var (
	colorPrimary = [3]int{27, 42, 74}
	colorText    = [3]int{44, 44, 44}
	colorLight   = [3]int{85, 85, 85}
)

// Renderer lays a rewritten resume out as a paginated PDF. A call is pure:
// everything happens in memory and nothing survives it but the returned bytes.
type Renderer struct {
	skillsKeywords []string
	twoColumnMin   int
}

// NewRenderer builds a renderer from the layout configuration.
func NewRenderer(cfg config.RenderConfig) *Renderer {
	keywords := make([]string, 0, len(cfg.SkillsKeywords))
	for _, kw := range cfg.SkillsKeywords {
		keywords = append(keywords, strings.ToLower(kw))
	}
	min := cfg.SkillsTwoColumnMin
	if min <= 0 {
		min = 6
	}
	return &Renderer{skillsKeywords: keywords, twoColumnMin: min}
}

// Render produces the PDF byte stream for the rewritten resume text.
func (r *Renderer) Render(rewritten string) ([]byte, error) {
	if strings.TrimSpace(rewritten) == "" {
		return nil, fmt.Errorf("nothing to render")
	}

	doc := parseDocument(sanitizeText(rewritten))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Currículo - "+doc.Name, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.writeHeader(pdf, tr, doc)

	for _, sec := range doc.Sections {
		r.writeSection(pdf, tr, sec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	log.Debug().Int("bytes", buf.Len()).Int("sections", len(doc.Sections)).Msg("resume PDF generated")
	return buf.Bytes(), nil
}

func (r *Renderer) writeHeader(pdf *fpdf.Fpdf, tr func(string) string, doc Document) {
	if doc.Name != "" {
		pdf.SetFont("Helvetica", "B", 22)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		pdf.MultiCell(contentWidth, 9, tr(strings.ToUpper(doc.Name)), "", "L", false)
	}
	if doc.Contact != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(colorLight[0], colorLight[1], colorLight[2])
		pdf.MultiCell(contentWidth, 4.5, tr(doc.Contact), "", "L", false)
	}
	pdf.Ln(2)
}

func (r *Renderer) writeSection(pdf *fpdf.Fpdf, tr func(string) string, sec Section) {
	if sec.Title != "" {
		r.writeHeading(pdf, tr, sec.Title)
	}

	if r.isTwoColumnSkills(sec) {
		r.writeTwoColumns(pdf, tr, sec.Bullets())
		return
	}

	for _, b := range sec.Blocks {
		switch b.Kind {
		case BlockBullet:
			r.writeBullet(pdf, tr, b.Text, contentWidth)
		case BlockJobTitle:
			r.ensureRoom(pdf, lineHeight*2)
			pdf.Ln(1.5)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			pdf.MultiCell(contentWidth, lineHeight, tr(b.Text), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 9.5)
			pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			pdf.MultiCell(contentWidth, lineHeight, tr(b.Text), "", "L", false)
			pdf.Ln(0.8)
		}
	}
}

// writeHeading draws the uppercased section title with a rule beneath it.
// Keep-together: a heading is never left alone at the bottom of a page,
// there must be room for at least one following line.
func (r *Renderer) writeHeading(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	r.ensureRoom(pdf, 16)
	pdf.Ln(2.5)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(contentWidth, 6, tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
	pdf.Ln(2)
}

// writeBullet draws the accent glyph and the indented wrapped text.
func (r *Renderer) writeBullet(pdf *fpdf.Fpdf, tr func(string) string, text string, width float64) {
	r.ensureRoom(pdf, lineHeight+1)
	x := pdf.GetX()
	y := pdf.GetY()
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Circle(x+1.4, y+lineHeight/2, 0.9, "F")
	pdf.SetX(x + bulletIndent)
	pdf.SetFont("Helvetica", "", 9.5)
	pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
	pdf.MultiCell(width-bulletIndent, lineHeight, tr(text), "", "L", false)
	pdf.SetX(x)
}

// writeTwoColumns distributes bullets into two equal-width columns by
// alternating assignment (even index left, odd index right), preserving
// order within each column, and renders them row by row.
func (r *Renderer) writeTwoColumns(pdf *fpdf.Fpdf, tr func(string) string, items []string) {
	left, right := splitColumns(items)

	colWidth := contentWidth/2 - columnGap/2
	for row := 0; row < len(left); row++ {
		r.ensureRoom(pdf, lineHeight+1)
		startX := pdf.GetX()
		startY := pdf.GetY()

		r.writeBullet(pdf, tr, left[row], colWidth)
		leftEnd := pdf.GetY()

		rightEnd := leftEnd
		if row < len(right) {
			pdf.SetXY(startX+colWidth+columnGap, startY)
			r.writeBullet(pdf, tr, right[row], colWidth)
			rightEnd = pdf.GetY()
		}

		pdf.SetXY(startX, maxY(leftEnd, rightEnd))
	}
	pdf.Ln(1)
}

// splitColumns distributes items by alternating assignment, keeping the
// original relative order inside each column.
func splitColumns(items []string) (left, right []string) {
	for i, it := range items {
		if i%2 == 0 {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	return left, right
}

// isTwoColumnSkills decides whether a section gets the compact two-column
// treatment: a skills-like title and a long run of plain bullets.
func (r *Renderer) isTwoColumnSkills(sec Section) bool {
	if !sec.AllBullets() || len(sec.Bullets()) < r.twoColumnMin {
		return false
	}
	title := strings.ToLower(sec.Title)
	for _, kw := range r.skillsKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// ensureRoom starts a new page when the next block cannot fit above the
// bottom margin.
func (r *Renderer) ensureRoom(pdf *fpdf.Fpdf, needed float64) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+needed > pageH-pageMargin {
		pdf.AddPage()
	}
}

func maxY(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
