package ux

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rfpRow struct {
	ID     string  `json:"id" yaml:"id"`
	Budget float64 `json:"budget" yaml:"budget"`
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":      FormatText,
		"text":  FormatText,
		"JSON":  FormatJSON,
		" yaml": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown format: xml")

	assert.True(t, FormatJSON.Structured())
	assert.False(t, FormatText.Structured())
}

func TestPrinter_Print(t *testing.T) {
	data := []rfpRow{{ID: "demo-rfp-1", Budget: 150000}}
	table := NewTable("ID", "BUDGET").Add("demo-rfp-1", "150,000 SAR")
	table.Title = "RFPs"

	tests := []struct {
		format string
		want   string
	}{
		{"text", "RFPs\n\nID          BUDGET\ndemo-rfp-1  150,000 SAR\n"},
		{"json", "[\n  {\n    \"id\": \"demo-rfp-1\",\n    \"budget\": 150000\n  }\n]\n"},
		{"yaml", "- id: demo-rfp-1\n  budget: 150000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			p, err := NewPrinter(tt.format, &buf)
			require.NoError(t, err)
			require.NoError(t, p.Print(data, table))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_NilTableInText(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter("text", &buf)
	require.NoError(t, err)
	require.NoError(t, p.Print(rfpRow{ID: "x"}, nil))
	assert.Empty(t, buf.String())
}

func TestPrinter_ValueFallsBackToYAML(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter("text", &buf)
	require.NoError(t, err)
	require.NoError(t, p.Value(map[string]string{"app": "procurement"}))
	assert.Equal(t, "app: procurement\n", buf.String())
}

func TestKeyValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KeyValues("✓ Logged in", "Email", "vendor@acme.com", "Role", "vendor").Write(&buf))
	assert.Equal(t, "✓ Logged in\n\nEmail:  vendor@acme.com\nRole:   vendor\n", buf.String())
}
