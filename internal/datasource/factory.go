package datasource

import (
	"sync"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/gateway"
)

// Factory builds the Source for a session. Client may be nil when no
// backend is configured; demo sessions still work. The fixture store is
// created on first use unless one is supplied.
type Factory struct {
	Client   *gateway.Client
	Fixtures *fixtures.State

	once    sync.Once
	loadErr error
}

// For returns the fixture source for demo sessions and the remote source
// otherwise.
func (f *Factory) For(token string, user domain.User, demo bool) (Source, error) {
	if demo {
		state, err := f.fixtures()
		if err != nil {
			return nil, err
		}
		return NewFixture(state, user), nil
	}
	if f.Client == nil {
		return nil, perrors.NewBackendMissingError()
	}
	return NewRemote(f.Client, token), nil
}

func (f *Factory) fixtures() (*fixtures.State, error) {
	f.once.Do(func() {
		if f.Fixtures != nil {
			return
		}
		f.Fixtures, f.loadErr = fixtures.NewDemoState()
	})
	return f.Fixtures, f.loadErr
}
