package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

type githubSearchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Body    string `json:"body"`
		HTMLURL string `json:"html_url"`
	} `json:"items"`
}

func (c *Client) fetchGitHub(ctx context.Context, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	params := url.Values{}
	params.Set("q", "Sora invite code OR Sora access code")
	params.Set("sort", "created")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(min(cfg.MaxPosts, 30)))

	headers := uaHeaders(cfg.UserAgent)
	if cfg.GitHubToken != "" {
		headers.Set("Authorization", "token "+cfg.GitHubToken)
	}

	var payload githubSearchResponse
	if err := c.http.GetJSON(ctx, c.githubURL, params, headers, &payload); err != nil {
		return nil, err
	}

	out := make([]hunt.Entry, 0, len(payload.Items))
	for _, item := range payload.Items {
		out = append(out, hunt.Entry{
			Title: "GitHub: " + item.Title,
			Body:  item.Body,
			URL:   item.HTMLURL,
		})
	}
	return out, nil
}
