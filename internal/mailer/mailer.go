package mailer

import (
	"bytes"
	"context"
	"embed"
	"html/template"
)

const (
	FromName            = "Storefront"
	maxRetires          = 3
	OrderPlacedTemplate = "order_placed.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(ctx context.Context, templateFile, username, email string, data any) error
}

// Message is a rendered template.
type Message struct {
	Subject string
	Plain   string
	HTML    string
}

// Render executes the subject, plainBody and htmlBody blocks of a template.
func Render(templateFile string, data any) (*Message, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}

	var msg Message
	for _, part := range []struct {
		name string
		dst  *string
	}{
		{"subject", &msg.Subject},
		{"plainBody", &msg.Plain},
		{"htmlBody", &msg.HTML},
	} {
		buf := new(bytes.Buffer)
		if err := tmpl.ExecuteTemplate(buf, part.name, data); err != nil {
			return nil, err
		}
		*part.dst = buf.String()
	}
	return &msg, nil
}
