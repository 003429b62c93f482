package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/datasource"
	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/exitcode"
	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/stubserver"
)

// cli runs commands against one state directory.
type cli struct {
	t        *testing.T
	stateDir string
	extra    []string
}

func newCLI(t *testing.T, extra ...string) *cli {
	t.Helper()
	t.Setenv("CI", "true")
	for _, key := range []string{"PORTAL_BACKEND_URL", "REACT_APP_BACKEND_URL", "PORTAL_APP", "PORTAL_STATE_DIR", "PORTAL_CONFIG", "PORTAL_REMOTE_AUTH", "PORTAL_EMPLOYEE_ID"} {
		unsetEnv(t, key)
	}
	return &cli{t: t, stateDir: t.TempDir(), extra: extra}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if prev, ok := os.LookupEnv(key); ok {
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { os.Setenv(key, prev) })
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	full := append([]string{"--state-dir", c.stateDir, "--log-level", "error"}, c.extra...)
	root.SetArgs(append(full, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "portal %v", args)
	return out
}

func TestCommandsRequireLogin(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{
		{"auth", "whoami"},
		{"procure", "rfps"},
		{"hr", "dashboard"},
	} {
		_, err := c.run(args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, perrors.ErrCodeAuthNotLoggedIn, perrors.CodeOf(err))
		assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))
	}
}

func TestDemoLoginPersistsAcrossCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("auth", "login", "--email", "vendor@acme.com", "--password", "secret")
	assert.Contains(t, out, "Logged in")
	assert.Contains(t, out, "vendor@acme.com")

	var who sessionView
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("auth", "whoami", "-o", "json")), &who))
	assert.Equal(t, domain.UserTypeVendor, who.UserType)
	assert.True(t, who.Demo)
	assert.Equal(t, domain.DemoCompanyName(domain.UserTypeVendor), who.CompanyName)

	out = c.mustRun("auth", "logout")
	assert.Contains(t, out, "Logged out")
	_, err := c.run("auth", "whoami")
	assert.Equal(t, perrors.ErrCodeAuthNotLoggedIn, perrors.CodeOf(err))
}

func TestLoginWithoutCredentialsNeedsBackend(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("auth", "login", "--email", "vendor@acme.com")
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeAuthRejected, perrors.CodeOf(err))
	assert.True(t, errors.Is(err, &perrors.PortalError{Code: perrors.ErrCodeConfigBackendMissing}))
}

func TestProcurementAsVendor(t *testing.T) {
	c := newCLI(t)
	c.mustRun("auth", "login", "--email", "vendor@acme.com", "--password", "secret")

	out := c.mustRun("procure", "rfps")
	assert.Contains(t, out, "demo-rfp-1")

	var proposals []domain.Proposal
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("procure", "proposals", "-o", "json")), &proposals))
	require.NotEmpty(t, proposals)
	for _, p := range proposals {
		assert.Equal(t, fixtures.DemoVendorID, p.VendorID, "vendors only see their own proposals")
	}

	out = c.mustRun("procure", "stats")
	assert.Contains(t, out, "My proposals")
	assert.NotContains(t, out, "Pending vendors")

	_, err := c.run("procure", "vendors", "approve", "vendor-002")
	require.Error(t, err, "vendors cannot approve vendors")
}

func TestProposalSubmit(t *testing.T) {
	c := newCLI(t)
	c.mustRun("auth", "login", "--email", "vendor@acme.com", "--password", "secret")

	dir := t.TempDir()
	tech := filepath.Join(dir, "technical.pdf")
	comm := filepath.Join(dir, "pricing.xlsx")
	require.NoError(t, os.WriteFile(tech, []byte("technical"), 0600))
	require.NoError(t, os.WriteFile(comm, []byte("pricing"), 0600))

	var res domain.SubmitResult
	out := c.mustRun("procure", "proposal", "submit", "--rfp", "demo-rfp-2", "--technical", tech, "--commercial", comm, "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.ProposalID)

	_, err := c.run("procure", "proposal", "submit", "--rfp", "demo-rfp-2", "--technical", filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, err = c.run("procure", "proposal", "submit")
	assert.EqualError(t, err, "--rfp is required")
}

func TestProcurementAsAdmin(t *testing.T) {
	c := newCLI(t)
	c.mustRun("auth", "login", "--email", "buyer@1957ventures.com", "--password", "secret")

	out := c.mustRun("procure", "stats")
	assert.Contains(t, out, "Pending vendors")

	out = c.mustRun("procure", "vendors", "approve", "vendor-002")
	assert.Contains(t, out, "Vendor vendor-002 approved")

	out = c.mustRun("procure", "rfp", "create", "--title", "Data center cooling", "--budget", "250000", "--deadline", "2025-09-30", "--category", "Facilities")
	assert.Contains(t, out, "Created Data center cooling")
	assert.Contains(t, out, string(domain.ApprovalManager))

	out = c.mustRun("procure", "proposal", "evaluate", "demo-proposal-v4")
	assert.Contains(t, out, "Recommendation:")

	_, err := c.run("procure", "rfp", "status", "demo-rfp-1", "archived")
	assert.ErrorContains(t, err, "invalid RFP status")

	out = c.mustRun("procure", "rfp", "status", "demo-rfp-1", "closed")
	assert.Contains(t, out, "now closed")
}

func TestContractDocumentDownload(t *testing.T) {
	c := newCLI(t)
	c.mustRun("auth", "login", "--email", "buyer@1957ventures.com", "--password", "secret")

	path := filepath.Join(t.TempDir(), "contract.pdf")
	var v documentView
	out := c.mustRun("procure", "contract", "document", "CTR-2025-001", "doc-2025-001-1", "--out", path, "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &v))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CTR-2025-001")
	assert.Equal(t, datasource.DocumentDigest(&domain.ContractDocument{Content: string(data)}), v.Digest)

	_, err = c.run("procure", "contract", "document", "CTR-2025-001", "doc-missing")
	assert.Equal(t, perrors.ErrCodeFixtureNotFound, perrors.CodeOf(err))
}

func TestProcurementAssistant(t *testing.T) {
	c := newCLI(t)
	c.mustRun("auth", "login", "--email", "buyer@1957ventures.com", "--password", "secret")

	out := c.mustRun("procure", "ask", "how", "do", "I", "create", "an", "rfp")
	assert.Contains(t, out, "RFP Management")
}

func TestHRCommands(t *testing.T) {
	c := newCLI(t, "--app", "hr")
	c.mustRun("auth", "login", "--email", "ahmed.alrahman@1957ventures.com", "--password", "secret")

	out := c.mustRun("hr", "profile")
	assert.Contains(t, out, "Ahmed Al-Rahman")

	var balance domain.VacationBalance
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("hr", "balance", "-o", "json")), &balance))
	assert.Equal(t, 28, balance.RemainingDays)

	out = c.mustRun("hr", "request", "create", "--type", domain.RequestSickLeave, "--start", "2025-02-10", "--end", "2025-02-11", "--reason", "Flu")
	assert.Contains(t, out, "Request submitted")
	assert.Contains(t, out, domain.StatusPendingApproval)

	_, err := c.run("hr", "request", "create")
	assert.ErrorContains(t, err, "--type is required")

	out = c.mustRun("hr", "policies", "--search", "annual")
	assert.Contains(t, out, "POL001")

	out = c.mustRun("hr", "chat", "How", "many", "vacation", "days", "do", "I", "have?")
	assert.Contains(t, out, "session: ")

	out = c.mustRun("hr", "payments")
	assert.Contains(t, out, "SAR")
}

func TestSignupValidation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("auth", "signup", "--email", "sales@acme.com", "--password", "secret",
		"--confirm-password", "other", "--otp", "123456")
	assert.Equal(t, perrors.ErrCodeAuthPasswordMismatch, perrors.CodeOf(err))

	_, err = c.run("auth", "signup", "--email", "sales@acme.com", "--password", "secret",
		"--confirm-password", "secret", "--otp", "000000")
	assert.Equal(t, perrors.ErrCodeAuthOTPInvalid, perrors.CodeOf(err))

	out := c.mustRun("auth", "signup", "--email", "sales@acme.com", "--password", "secret",
		"--confirm-password", "secret", "--otp", "123456", "--company", "Acme Trading")
	assert.Contains(t, out, "Registered")
	assert.Contains(t, out, "Acme Trading")
}

func TestRemoteLoginAgainstStub(t *testing.T) {
	state, err := fixtures.NewDemoState()
	require.NoError(t, err)
	srv, err := stubserver.New(state, stubserver.Config{SigningKey: []byte("test-signing-key")})
	require.NoError(t, err)
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	c := newCLI(t, "--backend", hs.URL, "--remote")

	_, err = c.run("auth", "login", "--email", "vendor001@techcorp.sa", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))

	c.mustRun("auth", "login", "--email", "vendor001@techcorp.sa", "--password", "DemoVendor123!")

	var who sessionView
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("auth", "whoami", "-o", "json")), &who))
	assert.False(t, who.Demo)
	assert.Equal(t, "vendor001@techcorp.sa", who.Email)

	var rfps []domain.RFP
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("procure", "rfps", "-o", "json")), &rfps))
	assert.NotEmpty(t, rfps)
}

func TestConfigSetAndGet(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("config", "path")
	assert.Contains(t, out, filepath.Join(c.stateDir, "config.yaml"))
	assert.Contains(t, out, "not created yet")

	c.mustRun("config", "set", "backend.url", "http://localhost:8001/")
	assert.Equal(t, "http://localhost:8001\n", c.mustRun("config", "get", "backend.url"))

	_, err := c.run("config", "set", "app", "crm")
	assert.Error(t, err)

	_, err = c.run("config", "get", "nope")
	assert.Equal(t, perrors.ErrCodeConfigInvalid, perrors.CodeOf(err))

	out = c.mustRun("config", "view")
	assert.Contains(t, out, "url: http://localhost:8001")
}

func TestStatusWithoutBackend(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("status")
	assert.Contains(t, out, "portal-backend")
	assert.Contains(t, out, "not logged in")
	assert.Contains(t, out, "overall degraded")
}

func TestContractCheck(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("contract", "check")
	assert.Contains(t, out, "all gateway routes are documented")
}

func TestUnknownOutputFormat(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("procure", "rfps", "-o", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("version"), "portal ")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0 SAR", money(0))
	assert.Equal(t, "1,500,000 SAR", money(1500000))
	assert.Equal(t, "-12,000 SAR", money(-12000))
}
