package datasource

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/gateway"
	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/stubserver"
)

var fixedNow = time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC)

func newState(t *testing.T) *fixtures.State {
	t.Helper()
	n := 0
	st, err := fixtures.NewDemoState(
		fixtures.WithClock(func() time.Time { return fixedNow }),
		fixtures.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	require.NoError(t, err)
	return st
}

func newRemote(t *testing.T) *Remote {
	t.Helper()
	srv, err := stubserver.New(newState(t), stubserver.Config{SigningKey: []byte("k")})
	require.NoError(t, err)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return NewRemote(gateway.NewClient(hs.URL, gateway.WithLogger(log.Discard())), "")
}

var demoVendor = domain.User{
	ID:          "demo-1736672400000",
	Email:       "vendor@acme.com",
	UserType:    domain.UserTypeVendor,
	IsApproved:  true,
	CompanyName: "Demo Company Inc.",
}

var demoAdmin = domain.User{
	ID:          "demo-1736672400001",
	Email:       "buyer@1957ventures.com",
	UserType:    domain.UserTypeAdmin,
	IsApproved:  true,
	CompanyName: "1957 Ventures",
}

func TestFixture_VendorActsAsDemoVendor(t *testing.T) {
	ctx := context.Background()
	f := NewFixture(newState(t), demoVendor)
	assert.Equal(t, NameFixture, f.Name())

	proposals, err := f.ListProposals(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, proposals)
	for _, p := range proposals {
		assert.Equal(t, fixtures.DemoVendorID, p.VendorID)
	}

	rfps, err := f.ListRFPs(ctx)
	require.NoError(t, err)
	assert.Len(t, rfps, 3)

	_, err = f.ListVendors(ctx)
	assert.Equal(t, perrors.ErrCodeFixtureForbidden, perrors.CodeOf(err))
}

func TestFixture_AdminSeesEverything(t *testing.T) {
	ctx := context.Background()
	f := NewFixture(newState(t), demoAdmin)

	proposals, err := f.ListProposals(ctx)
	require.NoError(t, err)
	assert.Len(t, proposals, 5)

	res, err := f.EvaluateProposal(ctx, "demo-proposal-1")
	require.NoError(t, err)
	assert.InDelta(t, 73.5, res.Evaluation.OverallScore, 0.001)
}

func TestFixture_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFixture(newState(t), demoVendor).ListRFPs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// Both sources must return a created request from the following list.
func TestCreatedRequestIsListed(t *testing.T) {
	sources := map[string]Source{
		NameFixture: NewFixture(newState(t), demoVendor),
		NameRemote:  newRemote(t),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			payload := domain.HRRequest{
				EmployeeID: fixtures.DemoEmployeeID,
				Type:       domain.RequestWorkFromHome,
				Date:       "2025-01-20",
				Reason:     "Plumber visit",
			}

			created, err := src.CreateRequest(ctx, payload)
			require.NoError(t, err)

			reqs, err := src.ListRequests(ctx, fixtures.DemoEmployeeID)
			require.NoError(t, err)

			var found *domain.HRRequest
			for i := range reqs {
				if reqs[i].ID == created.ID {
					found = &reqs[i]
				}
			}
			require.NotNil(t, found)
			assert.Equal(t, payload.EmployeeID, found.EmployeeID)
			assert.Equal(t, payload.Type, found.Type)
			assert.Equal(t, payload.Date, found.Date)
			assert.Equal(t, payload.Reason, found.Reason)
			assert.Equal(t, domain.StatusPendingApproval, found.Status)
		})
	}
}

func TestFactory(t *testing.T) {
	f := &Factory{Fixtures: newState(t)}

	src, err := f.For("demo-token-1", demoVendor, true)
	require.NoError(t, err)
	assert.Equal(t, NameFixture, src.Name())

	_, err = f.For("real", demoVendor, false)
	assert.Equal(t, perrors.ErrCodeConfigBackendMissing, perrors.CodeOf(err))

	client := gateway.NewClient("http://localhost:8001", gateway.WithLogger(log.Discard()))
	f.Client = client
	src, err = f.For("real", demoVendor, false)
	require.NoError(t, err)
	assert.Equal(t, NameRemote, src.Name())
	assert.Equal(t, "real", client.Token())
}

func TestFactory_CreatesFixturesOnDemand(t *testing.T) {
	f := &Factory{}
	src, err := f.For("demo-token-1", demoAdmin, true)
	require.NoError(t, err)

	stats, err := src.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalRFPs)
}

func TestDocumentDigest(t *testing.T) {
	a := DocumentDigest(&domain.ContractDocument{Content: "signed"})
	b := DocumentDigest(&domain.ContractDocument{Content: "signed"})
	c := DocumentDigest(&domain.ContractDocument{Content: "signed!"})

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRemote_CloseReleasesOnlyItsToken(t *testing.T) {
	c := gateway.NewClient("http://127.0.0.1:0", gateway.WithLogger(log.Discard()))

	first := NewRemote(c, "token-1")
	first.Close()
	assert.Empty(t, c.Token())

	old := NewRemote(c, "token-1")
	NewRemote(c, "token-2")
	old.Close()
	assert.Equal(t, "token-2", c.Token(), "a newer session keeps its credential")

	// Restoring the same session twice replaces a source holding the same token.
	prev := NewRemote(c, "token-3")
	NewRemote(c, "token-3")
	prev.Close()
	assert.Equal(t, "token-3", c.Token())

	f := NewFixture(newState(t), demoVendor)
	f.Close()
	_, err := f.ListRFPs(context.Background())
	assert.NoError(t, err)
}
