package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

type hnSearchResponse struct {
	Hits []struct {
		Title       string `json:"title"`
		StoryTitle  string `json:"story_title"`
		StoryText   string `json:"story_text"`
		CommentText string `json:"comment_text"`
		URL         string `json:"url"`
		StoryURL    string `json:"story_url"`
		ObjectID    string `json:"objectID"`
	} `json:"hits"`
}

func (c *Client) fetchHackerNews(ctx context.Context, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	params := url.Values{}
	params.Set("query", cfg.Query)
	params.Set("tags", "story,comment")
	params.Set("hitsPerPage", strconv.Itoa(min(cfg.MaxPosts, 50)))

	var payload hnSearchResponse
	if err := c.http.GetJSON(ctx, c.hackerNewsURL, params, nil, &payload); err != nil {
		return nil, err
	}

	out := make([]hunt.Entry, 0, len(payload.Hits))
	for _, hit := range payload.Hits {
		title := hit.Title
		if title == "" {
			title = hit.StoryTitle
		}
		body := hit.StoryText
		if body == "" {
			body = hit.CommentText
		}
		link := hit.URL
		if link == "" {
			link = hit.StoryURL
		}
		if link == "" && hit.ObjectID != "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}
		out = append(out, hunt.Entry{Title: title, Body: body, URL: link})
	}
	return out, nil
}
