package openreview

import (
	"context"
	"net/url"
	"strconv"
)

// ForEachNote pages through /notes with offset/limit windows, invoking
// fn for every note. The server reports the total count with each page;
// iteration stops when the offset reaches it, when a page comes back
// short, or when fn returns false.
func (c *Client) ForEachNote(ctx context.Context, params url.Values, fn func(note map[string]any) bool) error {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pageParams := url.Values{}
		for k, vs := range params {
			pageParams[k] = vs
		}
		pageParams.Set("limit", strconv.Itoa(c.cfg.PageSize))
		pageParams.Set("offset", strconv.Itoa(offset))

		page, err := c.Notes(ctx, pageParams)
		if err != nil {
			return err
		}
		if len(page.Notes) == 0 {
			return nil
		}

		for _, note := range page.Notes {
			if !fn(note) {
				return nil
			}
		}

		offset += len(page.Notes)
		if len(page.Notes) < c.cfg.PageSize || (page.Count > 0 && offset >= page.Count) {
			return nil
		}
	}
}
