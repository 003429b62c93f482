package contract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/gateway"
)

func TestEmbeddedDocumentCoversGateway(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Portal backend API", doc.Title())

	report := doc.Check(gateway.Routes())
	assert.False(t, report.Drifted(), "missing: %v", report.Missing)
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Unused)
	assert.Equal(t, len(gateway.Routes()), report.Checked)
	assert.Len(t, doc.Operations(), len(gateway.Routes()))
}

func TestCheckReportsDrift(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)

	routes := []gateway.Route{
		gateway.RouteRFPs,
		{Method: "DELETE", Path: "/rfps/{id}"},
		{Method: "GET", Path: "/reports"},
	}
	report := doc.Check(routes)

	require.True(t, report.Drifted())
	require.Len(t, report.Missing, 2)
	assert.Equal(t, CodeMissingMethod, report.Missing[0].Code)
	assert.Equal(t, CodeMissingPath, report.Missing[1].Code)
	assert.ErrorContains(t, report.Err(), "contract drift")
	assert.NotEmpty(t, report.Unused)
}

func TestCheckMatchesRenamedParameters(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)

	report := doc.Check([]gateway.Route{{Method: "GET", Path: "/rfps/{rfp_id}"}})
	assert.False(t, report.Drifted())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
openapi: 3.0.3
info: {title: Minimal, version: "1"}
paths:
  /rfps:
    get:
      responses:
        '200': {description: ok}
`), 0o644))

	doc, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source())

	report := doc.Check(gateway.Routes())
	assert.Len(t, report.Missing, len(gateway.Routes())-1)
}

func TestLoadFileRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"), 0o644))

	_, err := LoadFile(context.Background(), path)
	assert.Error(t, err)
}
