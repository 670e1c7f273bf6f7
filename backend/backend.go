// Package backend defines the boundary to the hosted backend-as-a-service:
// authentication plus table access for connection records. A Client is
// selected once at startup from configuration and injected everywhere; it is
// never constructed ad hoc.
package backend

import (
	"github.com/aionx/connect-dashboard/connections"
	"github.com/aionx/connect-dashboard/session"
)

// Client is the full backend contract consumed by the Session Store and the
// connection Repository.
type Client interface {
	session.AuthBackend
	connections.Table
}
