package datasource

import (
	"github.com/felixgeelhaar/portal/internal/gateway"
)

var _ Source = (*Remote)(nil)

// Remote passes every call straight to the backend gateway.
type Remote struct {
	*gateway.Client
	tokenGen uint64
}

// NewRemote wraps a gateway client. The client's bearer token is set to
// token so the session owns which credential is sent.
func NewRemote(c *gateway.Client, token string) *Remote {
	gen := c.AcquireToken(token)
	return &Remote{Client: c, tokenGen: gen}
}

func (r *Remote) Name() string {
	return NameRemote
}

// Close stops the client from sending this session's token.
func (r *Remote) Close() {
	r.Client.ReleaseToken(r.tokenGen)
}
