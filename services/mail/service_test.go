package mail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minddumper/minddumper/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewService(t *testing.T) {
	t.Run("requires from address", func(t *testing.T) {
		svc, err := NewService(&config.MailConfig{Host: "localhost", Port: 587}, nil)

		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FROM_ADDRESS")
	})

	t.Run("initializes without templates dir", func(t *testing.T) {
		cfg := &config.MailConfig{
			Host:        "localhost",
			Port:        587,
			FromAddress: "noreply@example.com",
			FromName:    "MindDumper",
			Encryption:  "none",
		}
		svc, err := NewService(cfg, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("loads templates from dir", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "login_link.html", "<p>{{.LoginURL}}</p>")
		writeTemplate(t, dir, "login_link.txt", "{{.LoginURL}}")

		cfg := &config.MailConfig{
			Host:         "localhost",
			Port:         587,
			FromAddress:  "noreply@example.com",
			Encryption:   "none",
			TemplatesDir: dir,
		}
		svc, err := NewService(cfg, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc.htmlTemplates.Lookup("login_link.html"))
		assert.NotNil(t, svc.textTemplates.Lookup("login_link.txt"))
	})

	t.Run("fails when templates dir has no templates", func(t *testing.T) {
		cfg := &config.MailConfig{
			Host:         "localhost",
			Port:         587,
			FromAddress:  "noreply@example.com",
			Encryption:   "none",
			TemplatesDir: t.TempDir(),
		}
		svc, err := NewService(cfg, nil)

		assert.Nil(t, svc)
		require.Error(t, err)
	})
}

func TestService_SendTemplate_UnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "login_link.txt", "{{.LoginURL}}")

	cfg := &config.MailConfig{
		Host:         "localhost",
		Port:         587,
		FromAddress:  "noreply@example.com",
		Encryption:   "none",
		TemplatesDir: dir,
	}
	svc, err := NewService(cfg, nil)
	require.NoError(t, err)

	err = svc.SendTemplate("missing", []string{"to@example.com"}, "Subject", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no template named")
}
