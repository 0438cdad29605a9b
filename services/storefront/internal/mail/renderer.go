package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// WelcomeData данные приветственного письма
type WelcomeData struct {
	Email  string
	Sender string
}

// Renderer рендерит шаблоны писем
type Renderer struct {
	welcomeHTML *htmltemplate.Template
	welcomeText *texttemplate.Template
}

// NewRenderer загружает встроенные шаблоны
func NewRenderer() (*Renderer, error) {
	welcomeHTML, err := htmltemplate.ParseFS(templatesFS, "templates/welcome.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse welcome html template: %w", err)
	}

	welcomeText, err := texttemplate.ParseFS(templatesFS, "templates/welcome.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse welcome text template: %w", err)
	}

	return &Renderer{
		welcomeHTML: welcomeHTML,
		welcomeText: welcomeText,
	}, nil
}

// RenderWelcome возвращает html и текстовую версии письма
func (r *Renderer) RenderWelcome(data WelcomeData) (htmlBody, textBody string, err error) {
	var html, text bytes.Buffer
	if err := r.welcomeHTML.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to render welcome html: %w", err)
	}
	if err := r.welcomeText.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("failed to render welcome text: %w", err)
	}
	return html.String(), text.String(), nil
}
