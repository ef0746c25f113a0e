package source

import (
	"context"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

// xProxyBodyLimit bounds the raw proxy text kept for extraction.
const xProxyBodyLimit = 15000

// fetchXProxy pulls an X search result page through a text-extraction
// proxy and returns it as a single entry; the extractor mines the raw
// text for tokens.
func (c *Client) fetchXProxy(ctx context.Context, d Descriptor, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	body, err := c.http.Get(ctx, c.xProxyPrefix+d.SearchURL, nil, uaHeaders(cfg.UserAgent))
	if err != nil {
		return nil, err
	}
	text := string(body)
	if len(text) > xProxyBodyLimit {
		text = text[:xProxyBodyLimit]
	}
	return []hunt.Entry{{Title: d.Label, Body: text, URL: d.SearchURL}}, nil
}
