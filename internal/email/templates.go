package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	ierr "github.com/upassistify/upassistify/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateNewsletter           = "newsletter.html"
	TemplateSignupWelcome        = "signup_welcome.html"
	TemplateProfileWelcome       = "profile_welcome.html"
	TemplatePasswordReset        = "password_reset.html"
	TemplatePurchaseConfirmation = "purchase_confirmation.html"
)

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{
			"year": func() int { return time.Now().Year() },
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// Render executes the named template with data
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", ierr.WithError(err).
			WithMessage(fmt.Sprintf("render %s", name)).
			WithHint("Failed to render email").
			Mark(ierr.ErrSystem)
	}
	return buf.String(), nil
}
