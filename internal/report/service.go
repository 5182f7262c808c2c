package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/signintech/gopdf"

	"symptom-checker/internal/assessment"
)

var ErrNoFont = errors.New("no usable font for PDF")

// DefaultFontPaths are the usual DejaVuSans locations on Alpine and Debian.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	fontFamily = "DejaVu"
	textWidth  = 500
	pageBottom = 790
	lineHeight = 14
	sectionGap = 10
	headerGap  = 30
)

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

type Service struct {
	tgClient        TelegramClient
	clinicianChatID int64
	fontPaths       []string
}

// NewService returns a report service. A zero clinicianChatID disables
// clinician notifications; an empty fontPaths uses DefaultFontPaths.
func NewService(tg TelegramClient, clinicianChatID int64, fontPaths []string) *Service {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	return &Service{
		tgClient:        tg,
		clinicianChatID: clinicianChatID,
		fontPaths:       fontPaths,
	}
}

// Render draws a one-assessment A4 report.
func (s *Service) Render(a assessment.Assessment) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := s.loadFont(pdf); err != nil {
		return nil, err
	}

	w := &writer{pdf: pdf}
	w.heading(20, "Symptom Assessment Report")
	w.gap(headerGap - lineHeight)

	w.setSize(12)
	w.line(fmt.Sprintf("Date: %s", a.Timestamp.UTC().Format("02.01.2006 15:04 MST")))
	w.line(fmt.Sprintf("Assessment ID: %s", a.ID))
	if a.SessionID != "" {
		w.line(fmt.Sprintf("Session ID: %s", a.SessionID))
	}
	w.gap(sectionGap)

	w.heading(14, "Result")
	w.setSize(11)
	w.line(fmt.Sprintf("Condition: %s", a.ConditionName))
	w.line(fmt.Sprintf("Symptom match: %d%% (%d of %d symptoms)", a.Score, a.Matches, a.TotalSymptoms))
	w.line(fmt.Sprintf("Risk level: %s", strings.ToUpper(string(a.Risk))))
	w.line(fmt.Sprintf("Risk factors present: %d%%", a.RiskFactorScore))
	w.gap(sectionGap)

	w.heading(14, "Selected symptoms")
	w.setSize(11)
	if len(a.SelectedSymptoms) == 0 {
		w.line("- None selected.")
	}
	for _, sym := range a.SelectedSymptoms {
		w.wrapped("- " + sym)
	}
	w.gap(sectionGap)

	w.heading(14, "Recommendations")
	w.setSize(11)
	for _, rec := range a.Recommendations {
		w.wrapped("- " + printable(rec))
	}

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range s.fontPaths {
		err := pdf.AddTTFFont(fontFamily, path)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("%w (tried %d paths): %v", ErrNoFont, len(s.fontPaths), lastErr)
}

// SendClinicianReport sends the PDF to the clinician chat. When the PDF
// cannot be produced the text summary is sent instead.
func (s *Service) SendClinicianReport(ctx context.Context, a assessment.Assessment) error {
	if s.clinicianChatID == 0 || s.tgClient == nil {
		return nil
	}

	data, err := s.Render(a)
	if err != nil {
		log.Printf("report: render %s failed, sending summary: %v", a.ID, err)
		return s.tgClient.SendMessage(ctx, s.clinicianChatID, "High-risk assessment: "+a.Summary())
	}

	fileName := fmt.Sprintf("assessment_%s.pdf", a.ID)
	if err := s.tgClient.SendDocument(ctx, s.clinicianChatID, data, fileName); err != nil {
		return err
	}
	log.Printf("report: sent %s to clinician chat", fileName)
	return nil
}

// writer keeps the first drawing error and starts a new page near the
// bottom margin.
type writer struct {
	pdf  *gopdf.GoPdf
	size int
	err  error
}

func (w *writer) setSize(size int) {
	if w.err != nil {
		return
	}
	w.size = size
	w.err = w.pdf.SetFont(fontFamily, "", size)
}

func (w *writer) heading(size int, text string) {
	w.setSize(size)
	w.line(text)
}

func (w *writer) line(text string) {
	if w.err != nil {
		return
	}
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
		w.err = w.pdf.SetFont(fontFamily, "", w.size)
		if w.err != nil {
			return
		}
	}
	w.err = w.pdf.Cell(nil, printable(text))
	w.pdf.Br(lineHeight)
}

func (w *writer) wrapped(text string) {
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(printable(text), textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.line(l)
	}
}

func (w *writer) gap(h float64) {
	w.pdf.Br(h)
}

// printable drops emoji and pictographs that DejaVuSans cannot draw.
func printable(s string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r > 0xFFFF,
			r >= 0x2600 && r <= 0x27BF,
			r >= 0xFE00 && r <= 0xFE0F,
			r == 0x200D:
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(out)
}
