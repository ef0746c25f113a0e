// Package source describes the pollable content sources and implements
// their fetch strategies. Descriptors are plain data; dispatch happens
// over a fixed set of kinds rather than captured closures, so the
// registry is inspectable and each strategy is testable on its own.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sorahunt/sorahunt/internal/fetch"
	"github.com/sorahunt/sorahunt/internal/hunt"
)

// Kind selects the fetch strategy for a descriptor.
type Kind string

// Fetch strategies.
const (
	KindRedditSearch    Kind = "reddit_search"
	KindRedditSubreddit Kind = "reddit_subreddit"
	KindXProxy          Kind = "x_proxy"
	KindBluesky         Kind = "bluesky"
	KindGitHub          Kind = "github"
	KindMastodon        Kind = "mastodon"
	KindHackerNews      Kind = "hackernews"
	KindOpenAIForum     Kind = "openai_forum"
)

// Descriptor is the static definition of one pollable source. The
// parameter fields used depend on Kind; unused fields stay zero.
type Descriptor struct {
	Name           string
	Kind           Kind
	Enabled        bool
	RateLimitDelay time.Duration

	// Reddit search: fixed query ("" means use the configured query)
	// and the listing timeframe.
	Query  string
	Window string

	// Reddit subreddit.
	Subreddit string

	// X proxy: upstream search URL and the human label for results.
	SearchURL string
	Label     string
}

// Registry returns the full source set in polling order.
func Registry() []Descriptor {
	return []Descriptor{
		{Name: "Reddit search (configured)", Kind: KindRedditSearch, Enabled: true, Window: "day"},
		{Name: "Reddit search (Sora invite code)", Kind: KindRedditSearch, Enabled: true, Query: "Sora invite code", Window: "week"},
		{Name: "Reddit search (Sora beta access)", Kind: KindRedditSearch, Enabled: true, Query: `"Sora" "beta" "access"`, Window: "week"},
		{Name: "Reddit /r/ChatGPT", Kind: KindRedditSubreddit, Enabled: true, Subreddit: "ChatGPT"},
		{Name: "Reddit /r/OpenAI", Kind: KindRedditSubreddit, Enabled: true, Subreddit: "OpenAI"},
		{Name: "Reddit /r/SoraAI", Kind: KindRedditSubreddit, Enabled: true, Subreddit: "SoraAI"},
		{Name: "Reddit /r/artificial", Kind: KindRedditSubreddit, Enabled: true, Subreddit: "artificial"},
		{
			Name: "X live (Sora invite code)", Kind: KindXProxy, Enabled: true,
			RateLimitDelay: time.Second,
			SearchURL:      "https://x.com/search?q=Sora%20invite%20code&f=live",
			Label:          "Live tweets: Sora invite code",
		},
		{
			Name: "X live (#SoraInvite)", Kind: KindXProxy, Enabled: true,
			RateLimitDelay: time.Second,
			SearchURL:      "https://x.com/search?q=%23SoraInvite&f=live",
			Label:          "Live tweets: #SoraInvite",
		},
		{
			Name: "X live (#SoraAccess)", Kind: KindXProxy, Enabled: true,
			RateLimitDelay: time.Second,
			SearchURL:      "https://x.com/search?q=%23SoraAccess&f=live",
			Label:          "Live tweets: #SoraAccess",
		},
		{Name: "Bluesky search", Kind: KindBluesky, Enabled: true, RateLimitDelay: 2 * time.Second},
		{Name: "GitHub issues", Kind: KindGitHub, Enabled: true, RateLimitDelay: 3 * time.Second},
		{Name: "Mastodon search", Kind: KindMastodon, Enabled: true, RateLimitDelay: 2 * time.Second},
		{Name: "Hacker News", Kind: KindHackerNews, Enabled: true},
		{Name: "OpenAI Community", Kind: KindOpenAIForum, Enabled: true},
	}
}

// Default API endpoints. Client fields exist so tests can point a
// strategy at a local server.
const (
	redditSearchURL       = "https://www.reddit.com/search.json"
	redditSubredditURLFmt = "https://www.reddit.com/r/%s/new.json"
	hackerNewsSearchURL   = "https://hn.algolia.com/api/v1/search_by_date"
	openAIForumLatestURL  = "https://community.openai.com/latest.json"
	blueskySearchURL      = "https://public.api.bsky.app/xrpc/app.bsky.feed.searchPosts"
	xProxyPrefix          = "https://r.jina.ai/"
	githubSearchURL       = "https://api.github.com/search/issues"
	mastodonSearchURL     = "https://mastodon.social/api/v2/search"
)

// Client executes fetch strategies over a shared HTTP client.
type Client struct {
	http *fetch.Client

	redditSearchURL       string
	redditSubredditURLFmt string
	hackerNewsURL         string
	forumURL              string
	blueskyURL            string
	xProxyPrefix          string
	githubURL             string
	mastodonURL           string
}

// NewClient constructs a Client against the real endpoints.
func NewClient(httpClient *fetch.Client) *Client {
	return &Client{
		http:                  httpClient,
		redditSearchURL:       redditSearchURL,
		redditSubredditURLFmt: redditSubredditURLFmt,
		hackerNewsURL:         hackerNewsSearchURL,
		forumURL:              openAIForumLatestURL,
		blueskyURL:            blueskySearchURL,
		xProxyPrefix:          xProxyPrefix,
		githubURL:             githubSearchURL,
		mastodonURL:           mastodonSearchURL,
	}
}

// Fetch runs the descriptor's strategy with the per-cycle config and
// returns the raw records, capped at cfg.MaxPosts (strategies apply
// tighter provider-specific ceilings where the API demands one).
func (c *Client) Fetch(ctx context.Context, d Descriptor, cfg hunt.PollConfig) ([]hunt.Entry, error) {
	switch d.Kind {
	case KindRedditSearch:
		return c.fetchRedditSearch(ctx, d, cfg)
	case KindRedditSubreddit:
		return c.fetchRedditSubreddit(ctx, d, cfg)
	case KindXProxy:
		return c.fetchXProxy(ctx, d, cfg)
	case KindBluesky:
		return c.fetchBluesky(ctx, cfg)
	case KindGitHub:
		return c.fetchGitHub(ctx, cfg)
	case KindMastodon:
		return c.fetchMastodon(ctx, cfg)
	case KindHackerNews:
		return c.fetchHackerNews(ctx, cfg)
	case KindOpenAIForum:
		return c.fetchOpenAIForum(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown source kind %q", d.Kind)
	}
}

func uaHeaders(userAgent string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	return h
}
