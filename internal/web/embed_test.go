package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	for _, page := range []string{"login.html", "change_password.html", "dashboard.html"} {
		assert.Contains(t, tmpl.pages, page)
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.Render(&buf, "login.html", map[string]interface{}{}))
	assert.Contains(t, buf.String(), "<title>Entrar · Go Rental</title>")
	assert.Contains(t, buf.String(), `href="/static/css/app.css"`)

	// Each page keeps its own content block.
	buf.Reset()
	require.NoError(t, tmpl.Render(&buf, "change_password.html", map[string]interface{}{"Required": true}))
	assert.Contains(t, buf.String(), `id="password-form"`)
	assert.NotContains(t, buf.String(), `id="login-form"`)

	assert.Error(t, tmpl.Render(&buf, "missing.html", nil))
}

func TestMoneyFunc(t *testing.T) {
	money := funcs["money"].(func(decimal.Decimal) string)
	assert.Equal(t, "R$ 1750,00", money(decimal.RequireFromString("1750")))
	assert.Equal(t, "R$ 0,05", money(decimal.RequireFromString("0.049")))
}

func TestGetStaticFS(t *testing.T) {
	static, err := GetStaticFS()
	require.NoError(t, err)

	_, err = fs.Stat(static, "css/app.css")
	assert.NoError(t, err)
	_, err = fs.Stat(static, "js/app.js")
	assert.NoError(t, err)
}
