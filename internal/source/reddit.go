package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Permalink string `json:"permalink"`
				URL       string `json:"url"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (l redditListing) entries() []hunt.Entry {
	out := make([]hunt.Entry, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		d := child.Data
		link := d.URL
		if d.Permalink != "" {
			link = "https://www.reddit.com" + d.Permalink
		}
		out = append(out, hunt.Entry{Title: d.Title, Body: d.Selftext, URL: link})
	}
	return out
}

func redditHeaders(userAgent string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	h.Set("Referer", "https://www.reddit.com/")
	return h
}

func (c *Client) fetchRedditSearch(ctx context.Context, d Descriptor, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	query := d.Query
	if query == "" {
		query = cfg.Query
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "new")
	params.Set("limit", strconv.Itoa(cfg.MaxPosts))
	params.Set("restrict_sr", "false")
	params.Set("t", d.Window)

	var listing redditListing
	if err := c.http.GetJSON(ctx, c.redditSearchURL, params, redditHeaders(cfg.UserAgent), &listing); err != nil {
		return nil, err
	}
	return listing.entries(), nil
}

func (c *Client) fetchRedditSubreddit(ctx context.Context, d Descriptor, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(cfg.MaxPosts))

	target := fmt.Sprintf(c.redditSubredditURLFmt, d.Subreddit)
	var listing redditListing
	if err := c.http.GetJSON(ctx, target, params, redditHeaders(cfg.UserAgent), &listing); err != nil {
		return nil, err
	}
	return listing.entries(), nil
}
