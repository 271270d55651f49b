package openreview

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.RecordSource = (*Connector)(nil)

// Connector fetches review threads from OpenReview venues.
type Connector struct {
	client *Client
	mu     sync.Mutex
	closed bool
}

// New creates a new OpenReview connector.
func New(cfg Config) *Connector {
	return &Connector{client: NewClient(cfg)}
}

// Client exposes the underlying API client so the download pipeline can
// reuse its PDF fetching and rate limiting.
func (c *Connector) Client() *Client {
	return c.client
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "openreview"
}

// Validate checks configuration and, when credentials are present,
// performs the login exchange.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := c.client.Login(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	return nil
}

// Crawl streams a venue's submissions and every reply in each forum.
func (c *Connector) Crawl(ctx context.Context, venue domain.Venue) (<-chan domain.RawNote, <-chan error) {
	notesChan := make(chan domain.RawNote)
	errsChan := make(chan error, 1)

	go func() {
		// Consumers drain notes to completion before errors, so the
		// notes channel must close first.
		defer close(errsChan)
		defer close(notesChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		forums, err := c.streamSubmissions(ctx, venue, notesChan)
		if err != nil {
			errsChan <- err
			return
		}
		if len(forums) == 0 {
			errsChan <- fmt.Errorf("%w: %s", domain.ErrVenueNotFound, venue.ID)
			return
		}

		logger.Info("Crawling replies for %d forums", len(forums))
		for _, forum := range forums {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := c.streamReplies(ctx, forum, notesChan); err != nil {
				// Per-forum failures are reported but do not stop the crawl.
				forumErr := fmt.Errorf("forum %s: %w", forum, err)
				select {
				case errsChan <- forumErr:
				default:
					logger.Warn("Crawl error not delivered: %v", forumErr)
				}
			}
		}
	}()

	return notesChan, errsChan
}

// streamSubmissions emits every submission found under the venue's
// invitation suffixes, deduplicated by id, honouring venue.Limit.
// Returns the forum ids to fetch replies for.
func (c *Connector) streamSubmissions(ctx context.Context, venue domain.Venue, out chan<- domain.RawNote) ([]string, error) {
	var forums []string
	seen := make(map[string]struct{})

	for _, suffix := range venue.InvitationSuffixes {
		invitation := venue.ID + "/-/" + suffix
		logger.Debug("Trying invitation %s", invitation)

		params := url.Values{}
		params.Set("invitation", invitation)

		var sendErr error
		err := c.client.ForEachNote(ctx, params, func(payload map[string]any) bool {
			raw := decodeNote(payload)
			if raw.ID == "" {
				return true
			}
			if _, dup := seen[raw.ID]; dup {
				return true
			}
			seen[raw.ID] = struct{}{}

			if raw.Forum == "" {
				raw.Forum = raw.ID
			}

			select {
			case <-ctx.Done():
				sendErr = ctx.Err()
				return false
			case out <- raw:
			}

			forums = append(forums, raw.Forum)
			return venue.Limit <= 0 || len(forums) < venue.Limit
		})
		if sendErr != nil {
			return forums, sendErr
		}
		if err != nil && !IsNotFound(err) {
			return forums, fmt.Errorf("invitation %s: %w", invitation, err)
		}
		if venue.Limit > 0 && len(forums) >= venue.Limit {
			break
		}
	}
	return forums, nil
}

// streamReplies emits every note in a forum except the submission
// itself (its id equals the forum id).
func (c *Connector) streamReplies(ctx context.Context, forum string, out chan<- domain.RawNote) error {
	params := url.Values{}
	params.Set("forum", forum)

	var sendErr error
	err := c.client.ForEachNote(ctx, params, func(payload map[string]any) bool {
		raw := decodeNote(payload)
		if raw.ID == "" || raw.ID == forum {
			return true
		}
		if raw.Forum == "" {
			raw.Forum = forum
		}

		select {
		case <-ctx.Done():
			sendErr = ctx.Err()
			return false
		case out <- raw:
		}
		return true
	})
	if sendErr != nil {
		return sendErr
	}
	return err
}

// Close releases connector resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// decodeNote lifts the identity fields out of a raw note payload.
func decodeNote(payload map[string]any) domain.RawNote {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	return domain.RawNote{
		ID:         str("id"),
		Forum:      str("forum"),
		Invitation: str("invitation"),
		Payload:    payload,
	}
}
