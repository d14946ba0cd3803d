package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFixture(t, "counties.json", `[
		{"name": "Santa Clara", "tax_rate": 0.011},
		{"name": "Alameda", "tax_rate": 0.012},
		{"name": "San Mateo", "tax_rate": 0.01}
	]`)

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	rate, ok := reg.Rate("Santa Clara")
	require.True(t, ok)
	assert.Equal(t, "0.011", rate.String(), "rate literal survives decoding exactly")
}

func TestLoad_YAML(t *testing.T) {
	path := writeFixture(t, "counties.yaml", `
- name: Santa Clara
  tax_rate: 0.011
- name: Alameda
  tax_rate: 0.012
`)

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	rate, ok := reg.Rate("Santa Clara")
	require.True(t, ok)
	assert.Equal(t, "0.011", rate.String())
}

func TestLoad_CSV(t *testing.T) {
	path := writeFixture(t, "counties.csv", "name,tax_rate\nSanta Clara,0.011\nAlameda,0.012\n")

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	rate, ok := reg.Rate("Alameda")
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.012")))
}

func TestLoad_FormatsAgree(t *testing.T) {
	jsonPath := writeFixture(t, "counties.json", `[{"name": "Santa Clara", "tax_rate": 0.011}]`)
	yamlPath := writeFixture(t, "counties.yaml", "- name: Santa Clara\n  tax_rate: 0.011\n")
	csvPath := writeFixture(t, "counties.csv", "name,tax_rate\nSanta Clara,0.011\n")

	for _, path := range []string{jsonPath, yamlPath, csvPath} {
		reg, err := Load(path)
		require.NoError(t, err, path)
		rate, ok := reg.Rate("Santa Clara")
		require.True(t, ok, path)
		assert.Equal(t, "0.011", rate.String(), path)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "unsupported extension",
			file:    "counties.toml",
			content: "whatever",
			wantErr: "unsupported format",
		},
		{
			name:    "malformed json",
			file:    "counties.json",
			content: `{"not": "an array"}`,
			wantErr: "decode json",
		},
		{
			name:    "bad rate literal",
			file:    "counties.yaml",
			content: "- name: Santa Clara\n  tax_rate: abc\n",
			wantErr: "tax_rate",
		},
		{
			name:    "csv wrong header",
			file:    "counties.csv",
			content: "county,rate\nSanta Clara,0.011\n",
			wantErr: "csv header",
		},
		{
			name:    "csv bad rate",
			file:    "counties.csv",
			content: "name,tax_rate\nSanta Clara,not-a-rate\n",
			wantErr: "tax_rate",
		},
		{
			name:    "duplicate entries rejected",
			file:    "counties.json",
			content: `[{"name": "Santa Clara", "tax_rate": 0.011}, {"name": "Santa Clara", "tax_rate": 0.012}]`,
			wantErr: "duplicate",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, tc.file, tc.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}
