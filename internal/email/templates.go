package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type leadAssignedEmailData struct {
	baseEmailData
	AgentName string
	LeadName  string
	LeadPhone string
}

type followUpReminderEmailData struct {
	baseEmailData
	AgentName string
	LeadName  string
	DueAt     string
}

type leadConvertedEmailData struct {
	baseEmailData
	LeadName     string
	FeeFormatted string
	DueFormatted string
}

func renderEmailTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}

	return buf.String(), nil
}
