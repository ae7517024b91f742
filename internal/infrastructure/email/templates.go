// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package email delivers templated notification emails over SMTP.
package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Template names, one per notification kind.
const (
	TemplateAnalysisComplete    = "analysis_complete"
	TemplateAnalysisFailed      = "analysis_failed"
	TemplateEntitlementRequired = "entitlement_required"
	TemplateEntitlementReminder = "entitlement_reminder"
)

type renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func newRenderer() (*renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing html templates: %w", err)
	}

	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parsing text templates: %w", err)
	}

	return &renderer{html: html, text: text}, nil
}

// render produces the HTML and plain-text bodies for the named template.
func (r *renderer) render(name string, data any) (htmlBody, textBody string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.html.ExecuteTemplate(&htmlBuf, name+".html", data); err != nil {
		return "", "", fmt.Errorf("rendering %s.html: %w", name, err)
	}

	var textBuf bytes.Buffer
	if err := r.text.ExecuteTemplate(&textBuf, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("rendering %s.txt: %w", name, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}
