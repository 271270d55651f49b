package openreview

// DefaultBaseURL is the public OpenReview API endpoint.
const DefaultBaseURL = "https://api.openreview.net"

// Config holds the connection settings for the OpenReview API.
type Config struct {
	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Token is a bearer token. When set, Username/Password are ignored.
	Token string

	// Username and Password are exchanged for a token via /login on
	// first use. Both empty means anonymous access.
	Username string
	Password string

	// PageSize is the pagination window for /notes. Defaults to
	// DefaultPageSize.
	PageSize int
}

// DefaultPageSize is the notes-per-request window.
const DefaultPageSize = 1000

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	return c
}
