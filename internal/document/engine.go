package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PageSize names a paper size understood by both engines.
type PageSize string

const (
	PageA4 PageSize = "A4"
	PageA5 PageSize = "A5"
)

// Page is a document ready for PDF output. HTML feeds browser engines,
// Layout draws the same content for in-process engines.
type Page struct {
	Title     string
	HTML      []byte
	Size      PageSize
	Landscape bool
	Layout    func(pdf *gofpdf.Fpdf)
}

// PDFEngine turns a Page into PDF bytes.
type PDFEngine interface {
	PrintPDF(ctx context.Context, page Page) ([]byte, error)
}

// GofpdfEngine draws pages in-process with gofpdf.
type GofpdfEngine struct{}

// NewGofpdfEngine constructs the built-in engine.
func NewGofpdfEngine() *GofpdfEngine {
	return &GofpdfEngine{}
}

// PrintPDF runs page.Layout on a fresh document.
func (e *GofpdfEngine) PrintPDF(ctx context.Context, page Page) ([]byte, error) {
	if page.Layout == nil {
		return nil, errors.New("page has no layout")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	orientation := "P"
	if page.Landscape {
		orientation = "L"
	}
	size := string(page.Size)
	if size == "" {
		size = string(PageA4)
	}
	pdf := gofpdf.New(orientation, "mm", size, "")
	pdf.SetTitle(page.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	page.Layout(pdf)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// hexColor splits #RRGGBB into components; malformed input yields black.
func hexColor(hex string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

// pdfText makes text printable with the core cp1252 fonts.
func pdfText(pdf *gofpdf.Fpdf, text string) string {
	text = strings.ReplaceAll(text, "₹", "Rs. ")
	return pdf.UnicodeTranslatorFromDescriptor("")(text)
}

func certificateLayout(v certificateView) func(pdf *gofpdf.Fpdf) {
	return func(pdf *gofpdf.Fpdf) {
		w, h := pdf.GetPageSize()
		r, g, b := hexColor(v.Brand.Primary)

		pdf.SetDrawColor(r, g, b)
		pdf.SetLineWidth(1.2)
		pdf.Rect(8, 8, w-16, h-16, "D")
		pdf.SetLineWidth(0.5)
		pdf.Rect(12, 12, w-24, h-24, "D")

		center := func(y float64, font string, style string, size float64, text string) {
			pdf.SetFont(font, style, size)
			pdf.SetXY(15, y)
			pdf.CellFormat(w-30, size*0.5, pdfText(pdf, text), "", 0, "C", false, 0, "")
		}

		pdf.SetTextColor(r, g, b)
		center(24, "Times", "B", 26, v.Brand.Name)
		pdf.SetTextColor(100, 116, 139)
		center(37, "Helvetica", "", 11, strings.ToUpper(v.Brand.Tagline))

		pdf.SetTextColor(r, g, b)
		center(52, "Times", "B", 28, "CERTIFICATE OF COMPLETION")
		pdf.SetTextColor(148, 163, 184)
		center(67, "Courier", "", 10, v.Number)

		pdf.SetTextColor(71, 85, 105)
		center(80, "Helvetica", "", 13, "This is to certify that")
		pdf.SetTextColor(30, 41, 59)
		center(92, "Times", "BI", 32, v.StudentName)
		pdf.SetTextColor(71, 85, 105)
		center(112, "Helvetica", "", 13, "has successfully completed the training program in")
		pdf.SetTextColor(r, g, b)
		center(123, "Helvetica", "B", 20, v.CourseName)
		pdf.SetTextColor(71, 85, 105)
		center(137, "Helvetica", "", 12, "Batch: "+v.BatchName)

		details := make([]string, 0, 3)
		if v.Grade != "" {
			details = append(details, "Grade: "+v.Grade)
		}
		if v.Attendance != "" {
			details = append(details, "Attendance: "+v.Attendance)
		}
		if v.CompletionDate != "" {
			details = append(details, "Completed On: "+v.CompletionDate)
		}
		if len(details) > 0 {
			pdf.SetTextColor(30, 41, 59)
			center(148, "Helvetica", "B", 12, strings.Join(details, "     "))
		}

		pdf.SetDrawColor(30, 41, 59)
		pdf.SetLineWidth(0.4)
		lineY := h - 35
		pdf.Line(30, lineY, 90, lineY)
		pdf.Line(w-90, lineY, w-30, lineY)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 116, 139)
		pdf.SetXY(30, lineY+2)
		pdf.CellFormat(60, 5, "Director", "", 0, "C", false, 0, "")
		pdf.SetXY(w-90, lineY+2)
		pdf.CellFormat(60, 5, "Course Coordinator", "", 0, "C", false, 0, "")
		pdf.SetXY(90, lineY-2)
		pdf.CellFormat(w-180, 5, pdfText(pdf, "Issue Date: "+v.IssueDate), "", 0, "C", false, 0, "")
	}
}

func receiptLayout(v receiptView) func(pdf *gofpdf.Fpdf) {
	return func(pdf *gofpdf.Fpdf) {
		w, _ := pdf.GetPageSize()
		r, g, b := hexColor(v.Brand.Primary)
		margin := 12.0
		inner := w - 2*margin

		pdf.SetFillColor(r, g, b)
		pdf.Rect(margin, margin, inner, 26, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(margin, margin+5)
		pdf.CellFormat(inner, 8, pdfText(pdf, v.Brand.Name), "", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(margin, margin+15)
		pdf.CellFormat(inner, 5, pdfText(pdf, v.Brand.Tagline), "", 0, "C", false, 0, "")

		pdf.SetTextColor(30, 41, 59)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(margin, margin+32)
		pdf.CellFormat(inner, 6, "Payment Receipt", "", 0, "C", false, 0, "")
		pdf.SetFont("Courier", "", 10)
		pdf.SetTextColor(100, 116, 139)
		pdf.SetXY(margin, margin+39)
		pdf.CellFormat(inner, 5, v.Number, "", 0, "C", false, 0, "")

		y := margin + 50
		row := func(label, value string) {
			pdf.SetXY(margin+4, y)
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(100, 116, 139)
			pdf.CellFormat(inner/2-4, 7, label, "", 0, "L", false, 0, "")
			pdf.SetTextColor(30, 41, 59)
			pdf.CellFormat(inner/2-4, 7, pdfText(pdf, value), "", 0, "R", false, 0, "")
			y += 8
		}
		row("Date", v.Date)
		row("Student Name", v.StudentName)
		row("Admission No", v.Admission)
		if v.BatchName != "" {
			row("Batch", v.BatchName)
		}
		if v.CourseName != "" {
			row("Course", v.CourseName)
		}
		row("Receipt Type", v.Type)
		row("Payment Mode", v.PaymentMode)
		if v.Description != "" {
			row("Description", v.Description)
		}

		y += 3
		pdf.SetFillColor(241, 245, 249)
		pdf.Rect(margin, y, inner, 14, "F")
		pdf.SetXY(margin+4, y+3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(inner/2-4, 8, "Amount Paid", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 15)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(inner/2-4, 8, pdfText(pdf, v.Amount), "", 0, "R", false, 0, "")

		y += 20
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(22, 163, 74)
		pdf.SetXY(margin, y)
		pdf.CellFormat(inner, 5, strings.ToUpper(v.Status), "", 0, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(148, 163, 184)
		pdf.SetXY(margin, y+10)
		pdf.CellFormat(inner, 4, "Thank you for your payment!", "", 0, "C", false, 0, "")
		pdf.SetXY(margin, y+15)
		pdf.CellFormat(inner, 4, "This is a computer-generated receipt.", "", 0, "C", false, 0, "")
	}
}
