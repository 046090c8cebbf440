package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies-dashboard.json")
	body := `[
		{"name":"session","value":"abc","domain":"localhost","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"Lax"},
		{"name":"theme","value":"dark","domain":"localhost","path":"","sameSite":"None"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	session := cookies[0]
	assert.Equal(t, "session", session.Name)
	assert.Equal(t, "abc", session.Value)
	assert.Equal(t, "localhost", *session.Domain)
	assert.Equal(t, float64(1893456000), *session.Expires)
	assert.True(t, *session.HttpOnly)
	assert.True(t, *session.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, session.SameSite)

	theme := cookies[1]
	assert.Equal(t, "/", *theme.Path)
	assert.Nil(t, theme.Expires)
	assert.Nil(t, theme.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeNone, theme.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadCookies(path)
	assert.Error(t, err)
}
