package source

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

type blueskySearchResponse struct {
	Posts []struct {
		URI    string `json:"uri"`
		Author struct {
			Handle string `json:"handle"`
		} `json:"author"`
		Record struct {
			Text string `json:"text"`
		} `json:"record"`
	} `json:"posts"`
}

func (c *Client) fetchBluesky(ctx context.Context, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	params := url.Values{}
	params.Set("q", "Sora invite code")
	params.Set("limit", strconv.Itoa(min(cfg.MaxPosts, 25)))

	var payload blueskySearchResponse
	if err := c.http.GetJSON(ctx, c.blueskyURL, params, uaHeaders(cfg.UserAgent), &payload); err != nil {
		return nil, err
	}

	out := make([]hunt.Entry, 0, len(payload.Posts))
	for _, post := range payload.Posts {
		handle := post.Author.Handle
		if handle == "" {
			handle = "unknown"
		}
		var link string
		if post.URI != "" {
			parts := strings.Split(post.URI, "/")
			link = "https://bsky.app/profile/" + handle + "/post/" + parts[len(parts)-1]
		}
		out = append(out, hunt.Entry{
			Title: "Bluesky post by @" + handle,
			Body:  post.Record.Text,
			URL:   link,
		})
	}
	return out, nil
}
