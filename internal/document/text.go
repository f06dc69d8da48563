package document

import (
	"strings"
	"unicode/utf8"
)

const textBoxWidth = 78

func boxLine(b *strings.Builder, text string) {
	pad := textBoxWidth - utf8.RuneCountInString(text)
	if pad < 0 {
		text = string([]rune(text)[:textBoxWidth])
		pad = 0
	}
	left := pad / 2
	b.WriteString("║")
	b.WriteString(strings.Repeat(" ", left))
	b.WriteString(text)
	b.WriteString(strings.Repeat(" ", pad-left))
	b.WriteString("║\n")
}

func boxed(lines []string) string {
	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", textBoxWidth) + "╗\n")
	for _, line := range lines {
		boxLine(&b, line)
	}
	b.WriteString("╚" + strings.Repeat("═", textBoxWidth) + "╝\n")
	return b.String()
}

func certificateText(v certificateView) string {
	lines := []string{
		"",
		v.Brand.Name,
		v.Brand.Tagline,
		"",
		"CERTIFICATE OF COMPLETION",
		"",
		"Certificate No: " + v.Number,
		"",
		"This is to certify that",
		"",
		v.StudentName,
		"",
		"has successfully completed the training program in",
		"",
		v.CourseName,
		"",
		"Batch: " + v.BatchName,
		"",
	}
	if v.Grade != "" {
		lines = append(lines, "Grade: "+v.Grade)
	}
	if v.Attendance != "" {
		lines = append(lines, "Attendance: "+v.Attendance)
	}
	if v.CompletionDate != "" {
		lines = append(lines, "Completed On: "+v.CompletionDate)
	}
	lines = append(lines, "", "Issue Date: "+v.IssueDate, "")
	return boxed(lines)
}

func receiptText(v receiptView) string {
	row := func(label, value string) string {
		return padRight(label, 16) + padLeft(value, 40)
	}
	lines := []string{
		"",
		v.Brand.Name,
		v.Brand.Tagline,
		"",
		"PAYMENT RECEIPT",
		v.Number,
		"",
		row("Date", v.Date),
		row("Student Name", v.StudentName),
		row("Admission No", v.Admission),
	}
	if v.BatchName != "" {
		lines = append(lines, row("Batch", v.BatchName))
	}
	if v.CourseName != "" {
		lines = append(lines, row("Course", v.CourseName))
	}
	lines = append(lines,
		row("Receipt Type", v.Type),
		row("Payment Mode", v.PaymentMode),
	)
	if v.Description != "" {
		lines = append(lines, row("Description", v.Description))
	}
	lines = append(lines,
		"",
		row("Amount Paid", v.Amount),
		"",
		strings.ToUpper(v.Status),
		"",
		"Thank you for your payment!",
		"This is a computer-generated receipt.",
		"",
	)
	return boxed(lines)
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
