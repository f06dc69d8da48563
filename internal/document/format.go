package document

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const displayDateLayout = "02 Jan 2006"

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders amount as rupees with Indian digit grouping and two decimals, e.g. ₹1,500.50.
func FormatINR(amount float64) string {
	return "₹" + inrPrinter.Sprintf("%.2f", amount)
}

// PaymentModeLabel upper-cases the first letter of mode and turns its first underscore into a space.
func PaymentModeLabel(mode models.PaymentMode) string {
	raw := string(mode)
	if raw == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(raw)
	label := string(unicode.ToUpper(r)) + raw[size:]
	return strings.Replace(label, "_", " ", 1)
}

func displayDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(displayDateLayout)
}

func displayDatePtr(d *models.Date) string {
	if d == nil {
		return ""
	}
	return displayDate(*d)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
