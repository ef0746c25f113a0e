package source

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

type mastodonSearchResponse struct {
	Statuses []struct {
		Content string `json:"content"`
		URL     string `json:"url"`
		Account struct {
			Acct string `json:"acct"`
		} `json:"account"`
	} `json:"statuses"`
}

func (c *Client) fetchMastodon(ctx context.Context, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	params := url.Values{}
	params.Set("q", "Sora invite")
	params.Set("type", "statuses")
	params.Set("limit", strconv.Itoa(min(cfg.MaxPosts, 20)))

	var payload mastodonSearchResponse
	if err := c.http.GetJSON(ctx, c.mastodonURL, params, uaHeaders(cfg.UserAgent), &payload); err != nil {
		return nil, err
	}

	out := make([]hunt.Entry, 0, len(payload.Statuses))
	for _, status := range payload.Statuses {
		account := status.Account.Acct
		if account == "" {
			account = "unknown"
		}
		out = append(out, hunt.Entry{
			Title: "Mastodon post by @" + account,
			Body:  htmlTagPattern.ReplaceAllString(status.Content, ""),
			URL:   status.URL,
		})
	}
	return out, nil
}
