package connections

import (
	"strings"
	"time"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

// Connection is a configured link to an external server/channel pair, owned
// by one user. ID and CreatedAt are assigned by the backend and immutable;
// UserID is set at creation and immutable.
type Connection struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	ServerID  string    `json:"server_id"`
	ChannelID string    `json:"channel_id"`
	Token     *string   `json:"token,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Draft is the client-supplied portion of a new connection. Token is optional.
type Draft struct {
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	ServerID  string  `json:"server_id"`
	ChannelID string  `json:"channel_id"`
	Token     *string `json:"token,omitempty"`
}

// Validate checks the draft before any backend call is made. Required fields
// must be non-empty after trimming.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.UserID) == "" {
		return interrors.Validationf("user id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return interrors.Validationf("name is required")
	}
	if strings.TrimSpace(d.ServerID) == "" {
		return interrors.Validationf("server id is required")
	}
	if strings.TrimSpace(d.ChannelID) == "" {
		return interrors.Validationf("channel id is required")
	}
	return nil
}

// Trimmed returns a copy of the draft with surrounding whitespace removed.
func (d Draft) Trimmed() Draft {
	trimmed := Draft{
		UserID:    strings.TrimSpace(d.UserID),
		Name:      strings.TrimSpace(d.Name),
		ServerID:  strings.TrimSpace(d.ServerID),
		ChannelID: strings.TrimSpace(d.ChannelID),
	}
	if d.Token != nil {
		token := strings.TrimSpace(*d.Token)
		if token != "" {
			trimmed.Token = &token
		}
	}
	return trimmed
}

// Patch is a partial update. Nil fields are left unchanged. In practice only
// Active is patched; the form offers no partial edit of the other fields.
type Patch struct {
	Name      *string `json:"name,omitempty"`
	ServerID  *string `json:"server_id,omitempty"`
	ChannelID *string `json:"channel_id,omitempty"`
	Token     *string `json:"token,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// Apply copies the set fields of the patch onto the connection.
func (p Patch) Apply(c *Connection) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ServerID != nil {
		c.ServerID = *p.ServerID
	}
	if p.ChannelID != nil {
		c.ChannelID = *p.ChannelID
	}
	if p.Token != nil {
		c.Token = p.Token
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}
