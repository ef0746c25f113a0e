package source

import (
	"context"
	"strconv"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

type forumLatestResponse struct {
	TopicList struct {
		Topics []struct {
			ID      int    `json:"id"`
			Title   string `json:"title"`
			Excerpt string `json:"excerpt"`
			Slug    string `json:"slug"`
		} `json:"topics"`
	} `json:"topic_list"`
}

func (c *Client) fetchOpenAIForum(ctx context.Context, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	var payload forumLatestResponse
	if err := c.http.GetJSON(ctx, c.forumURL, nil, uaHeaders(cfg.UserAgent), &payload); err != nil {
		return nil, err
	}

	topics := payload.TopicList.Topics
	if len(topics) > cfg.MaxPosts {
		topics = topics[:cfg.MaxPosts]
	}
	out := make([]hunt.Entry, 0, len(topics))
	for _, topic := range topics {
		var link string
		if topic.Slug != "" {
			link = "https://community.openai.com/t/" + topic.Slug + "/" + strconv.Itoa(topic.ID)
		}
		out = append(out, hunt.Entry{Title: topic.Title, Body: topic.Excerpt, URL: link})
	}
	return out, nil
}
