// Package document renders receipts and certificates as HTML, plain text or PDF.
package document

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Format is a document rendition.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a query value to a Format, defaulting to PDF.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatHTML, FormatText:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("unsupported document format %q", raw)
	}
}

var contentTypes = map[Format]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatText: "text/plain; charset=utf-8",
	FormatPDF:  "application/pdf",
}

// Document is a rendered file ready to be served or stored.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Brand is the heading and colours printed on a document.
type Brand struct {
	Name    string
	Tagline string
	Primary string
	Accent  string
}

// Branding holds the two issuing brands.
type Branding struct {
	Technology Brand
	Academy    Brand
}

// DefaultBranding returns the brands with their house colours.
func DefaultBranding(instituteName, instituteTagline, academyName, academyTagline string) Branding {
	return Branding{
		Technology: Brand{Name: instituteName, Tagline: instituteTagline, Primary: "#1F5AA6", Accent: "#2563eb"},
		Academy:    Brand{Name: academyName, Tagline: academyTagline, Primary: "#16a34a", Accent: "#22c55e"},
	}
}

// ForReceipt picks the brand of a receipt type. Anything but GT prints as the academy.
func (b Branding) ForReceipt(t models.ReceiptType) Brand {
	if t == models.ReceiptTypeTechnology {
		return b.Technology
	}
	return b.Academy
}

// Renderer produces receipt and certificate documents.
type Renderer struct {
	branding  Branding
	engine    PDFEngine
	timeout   time.Duration
	templates *template.Template
}

// NewRenderer parses the embedded templates. A nil engine disables PDF output.
func NewRenderer(branding Branding, engine PDFEngine, timeout time.Duration) (*Renderer, error) {
	tmpl, err := template.New("documents").ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse document templates: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Renderer{branding: branding, engine: engine, timeout: timeout, templates: tmpl}, nil
}

type receiptView struct {
	Brand       Brand
	Number      string
	Type        string
	Date        string
	StudentName string
	Admission   string
	BatchName   string
	CourseName  string
	PaymentMode string
	Description string
	Amount      string
	Status      string
}

type certificateView struct {
	Brand          Brand
	Number         string
	StudentName    string
	CourseName     string
	BatchName      string
	Grade          string
	Attendance     string
	CompletionDate string
	IssueDate      string
}

func (r *Renderer) receiptView(rc *models.ReceiptDetail) receiptView {
	receiptType := rc.ReceiptType
	if receiptType == "" {
		receiptType = models.ReceiptTypeAcademy
	}
	return receiptView{
		Brand:       r.branding.ForReceipt(receiptType),
		Number:      rc.ReceiptNumber,
		Type:        string(receiptType),
		Date:        displayDate(rc.PaymentDate),
		StudentName: rc.StudentName,
		Admission:   rc.AdmissionNumber,
		BatchName:   deref(rc.BatchName),
		CourseName:  deref(rc.CourseName),
		PaymentMode: PaymentModeLabel(rc.PaymentMode),
		Description: deref(rc.Description),
		Amount:      FormatINR(rc.Amount),
		Status:      string(rc.Status),
	}
}

func (r *Renderer) certificateView(c *models.CertificateDetail) certificateView {
	view := certificateView{
		Brand:          r.branding.Technology,
		Number:         c.CertificateNumber,
		StudentName:    c.StudentName,
		CourseName:     c.CourseName,
		BatchName:      c.BatchName,
		Grade:          deref(c.Grade),
		CompletionDate: displayDatePtr(c.CompletionDate),
		IssueDate:      displayDate(c.IssueDate),
	}
	if c.AttendancePercentage != nil && *c.AttendancePercentage > 0 {
		view.Attendance = strconv.FormatFloat(*c.AttendancePercentage, 'f', -1, 64) + "%"
	}
	return view
}

// Receipt renders a receipt in the requested format.
func (r *Renderer) Receipt(ctx context.Context, rc *models.ReceiptDetail, format Format) (*Document, error) {
	view := r.receiptView(rc)
	base := "Receipt-" + rc.ReceiptNumber
	switch format {
	case FormatText:
		return r.document(base, format, []byte(receiptText(view))), nil
	case FormatHTML, FormatPDF:
		html, err := r.execute("receipt.html.tmpl", view)
		if err != nil {
			return nil, err
		}
		if format == FormatHTML {
			return r.document(base, format, html), nil
		}
		pdf, err := r.print(ctx, Page{Title: base, HTML: html, Size: PageA5, Layout: receiptLayout(view)})
		if err != nil {
			return nil, err
		}
		return r.document(base, format, pdf), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported document format")
	}
}

// Certificate renders a certificate in the requested format.
func (r *Renderer) Certificate(ctx context.Context, c *models.CertificateDetail, format Format) (*Document, error) {
	view := r.certificateView(c)
	base := "Certificate-" + c.CertificateNumber
	switch format {
	case FormatText:
		return r.document(base, format, []byte(certificateText(view))), nil
	case FormatHTML, FormatPDF:
		html, err := r.execute("certificate.html.tmpl", view)
		if err != nil {
			return nil, err
		}
		if format == FormatHTML {
			return r.document(base, format, html), nil
		}
		pdf, err := r.print(ctx, Page{Title: base, HTML: html, Size: PageA4, Landscape: true, Layout: certificateLayout(view)})
		if err != nil {
			return nil, err
		}
		return r.document(base, format, pdf), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported document format")
	}
}

func (r *Renderer) execute(name string, view interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, view); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	return buf.Bytes(), nil
}

func (r *Renderer) print(ctx context.Context, page Page) ([]byte, error) {
	if r.engine == nil {
		return nil, appErrors.ErrDocumentUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	pdf, err := r.engine.PrintPDF(ctx, page)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDocumentUnavailable.Code, appErrors.ErrDocumentUnavailable.Status, appErrors.ErrDocumentUnavailable.Message)
	}
	return pdf, nil
}

func (r *Renderer) document(base string, format Format, body []byte) *Document {
	return &Document{FileName: base + "." + string(format), ContentType: contentTypes[format], Body: body}
}
