package mail

import (
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"go.uber.org/zap"

	"github.com/contactbook/contactbook/config"
	"github.com/contactbook/contactbook/pkg/logger"
)

// confirmTemplate renders the confirmation mail body. The link target is
// the public confirmation endpoint with the signed token embedded.
const confirmTemplate = `<html>
<body>
  <p>Hi {{ .Username | title }},</p>
  <p>Thanks for signing up with {{ .AppName }}. Please confirm your email address by clicking the link below:</p>
  <p><a href="{{ .BaseURL | trimSuffix "/" }}/api/auth/confirmed_email/{{ .Token }}">Confirm your email</a></p>
  <p>The link is valid for 7 days. If you did not create this account, you can ignore this message.</p>
</body>
</html>`

type templateData struct {
	Username string
	AppName  string
	BaseURL  string
	Token    string
}

// SMTPMailer sends confirmation mail over SMTP with an HTML body.
type SMTPMailer struct {
	cfg     config.MailConfig
	appName string
	baseURL string
	tmpl    *template.Template
}

func NewSMTPMailer(cfg config.MailConfig, appName, baseURL string) (*SMTPMailer, error) {
	tmpl, err := template.New("confirm").Funcs(sprig.FuncMap()).Parse(confirmTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail template: %w", err)
	}

	return &SMTPMailer{
		cfg:     cfg,
		appName: appName,
		baseURL: baseURL,
		tmpl:    tmpl,
	}, nil
}

// SendConfirmation delivers the confirmation email. Callers dispatch it
// in the background; errors are logged by the caller, not surfaced to
// the originating request.
func (m *SMTPMailer) SendConfirmation(to, username, token string) error {
	var body strings.Builder
	err := m.tmpl.Execute(&body, templateData{
		Username: username,
		AppName:  m.appName,
		BaseURL:  m.baseURL,
		Token:    token,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation mail: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Confirm your email\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body.String())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	logger.GetLogger().Info("Confirmation email sent",
		zap.String("to", to))
	return nil
}
