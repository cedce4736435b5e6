package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmbeddedOTPEmail(t *testing.T) {
	r, err := NewRenderer("", ".html", "UTF-8")
	require.NoError(t, err)

	html, err := r.Render(OTPEmail, map[string]any{
		"name":      "Ada <script>",
		"otp":       "123456",
		"expiresIn": 10,
		"brand":     "Acme",
		"year":      "2026",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "expires in 10 minutes")
	assert.Contains(t, html, "&copy; 2026 Acme")
	assert.Contains(t, html, "Ada &lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestRenderDefaultsBrand(t *testing.T) {
	r, err := NewRenderer("", "", "")
	require.NoError(t, err)
	html, err := r.Render(OTPEmail, map[string]any{"otp": "654321", "expiresIn": 5, "year": "2026"})
	require.NoError(t, err)
	assert.Contains(t, html, "&copy; 2026 Demo")
	assert.Contains(t, html, "Hi there")
}

func TestRenderFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otp-email.tpl"), []byte(`code={{ .otp }}`), 0o644))

	r, err := NewRenderer(dir, ".tpl", "utf8")
	require.NoError(t, err)
	out, err := r.Render(OTPEmail, map[string]any{"otp": "111222"})
	require.NoError(t, err)
	assert.Equal(t, "code=111222", out)

	// cached template survives file removal
	require.NoError(t, os.Remove(filepath.Join(dir, "otp-email.tpl")))
	out, err = r.Render(OTPEmail, map[string]any{"otp": "333444"})
	require.NoError(t, err)
	assert.Equal(t, "code=333444", out)
}

func TestRenderMissingTemplate(t *testing.T) {
	r, err := NewRenderer("", ".html", "UTF-8")
	require.NoError(t, err)
	_, err = r.Render("welcome", nil)
	assert.ErrorContains(t, err, `parse "welcome.html"`)
}

func TestNewRendererRejectsConfig(t *testing.T) {
	_, err := NewRenderer("", ".html", "ISO-8859-1")
	assert.ErrorContains(t, err, "unsupported template encoding")

	_, err = NewRenderer(filepath.Join(t.TempDir(), "missing"), ".html", "UTF-8")
	assert.ErrorContains(t, err, "template dir")
}
