package mail

import (
	"bytes"
	"fmt"
	htmlTemplate "html/template"
	"path/filepath"
	textTemplate "text/template"

	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Service struct {
	config        *config.MailConfig
	client        *mail.Client
	htmlTemplates *htmlTemplate.Template
	textTemplates *textTemplate.Template
	logger        *logging.Service
}

func NewService(cfg *config.MailConfig, logger *logging.Service) (*Service, error) {
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("MD_MAIL_FROM_ADDRESS is required")
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	switch cfg.Encryption {
	case "tls", "starttls":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts, mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(cfg.Username))
	}
	if cfg.Password != "" {
		clientOpts = append(clientOpts, mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	service := &Service{
		config: cfg,
		client: client,
		logger: logger,
	}

	if err := service.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	if logger != nil {
		logger.Info("mail service initialized",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("from_address", cfg.FromAddress))
	}
	return service, nil
}

func (s *Service) loadTemplates() error {
	if s.config.TemplatesDir == "" {
		return nil
	}

	htmlPattern := filepath.Join(s.config.TemplatesDir, "*.html")
	textPattern := filepath.Join(s.config.TemplatesDir, "*.txt")

	var err error
	s.htmlTemplates, err = htmlTemplate.ParseGlob(htmlPattern)
	if err != nil {
		s.htmlTemplates = nil
	}
	s.textTemplates, err = textTemplate.ParseGlob(textPattern)
	if err != nil {
		s.textTemplates = nil
	}

	if s.htmlTemplates == nil && s.textTemplates == nil {
		return fmt.Errorf("no mail templates found in %s", s.config.TemplatesDir)
	}
	return nil
}

// SendTemplate renders the named template pair (html and/or text) and sends it.
func (s *Service) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.config.FromName, s.config.FromAddress); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)

	var hasBody bool

	if s.htmlTemplates != nil {
		if tpl := s.htmlTemplates.Lookup(templateName + ".html"); tpl != nil {
			var buf bytes.Buffer
			if err := tpl.Execute(&buf, data); err != nil {
				return fmt.Errorf("failed to render html template %q: %w", templateName, err)
			}
			msg.SetBodyString(mail.TypeTextHTML, buf.String())
			hasBody = true
		}
	}

	if s.textTemplates != nil {
		if tpl := s.textTemplates.Lookup(templateName + ".txt"); tpl != nil {
			var buf bytes.Buffer
			if err := tpl.Execute(&buf, data); err != nil {
				return fmt.Errorf("failed to render text template %q: %w", templateName, err)
			}
			if hasBody {
				msg.AddAlternativeString(mail.TypeTextPlain, buf.String())
			} else {
				msg.SetBodyString(mail.TypeTextPlain, buf.String())
			}
			hasBody = true
		}
	}

	if !hasBody {
		return fmt.Errorf("no template named %q", templateName)
	}

	if err := s.client.DialAndSend(msg); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to send mail",
				zap.Error(err),
				zap.String("template", templateName),
				zap.Strings("to", to))
		}
		return fmt.Errorf("failed to send mail: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("mail sent", zap.String("template", templateName), zap.Strings("to", to))
	}
	return nil
}
