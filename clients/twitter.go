// clients/twitter.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"game-contest-system/config"
	"game-contest-system/models"

	"github.com/dghubble/oauth1"
)

// ErrRateLimited marks a 429 from the platform. Callers treat it the same
// as any other transient error (skip and retry next tick) but log it
// separately so rate-limit pressure is visible.
var ErrRateLimited = errors.New("twitter: rate limited")

const twitterAPIBase = "https://api.twitter.com"

// Reply is one tweet in a game's conversation, with its author resolved
// from the user expansion.
type Reply struct {
	ID       string
	Text     string
	AuthorID string
	Author   models.Author
}

// TwitterClient talks to the Twitter v2 API. Writes (tweets and replies)
// are signed with the OAuth 1.0a user context; reads use the app bearer
// token.
type TwitterClient struct {
	BaseURL     string
	BearerToken string
	WriteClient *http.Client // OAuth1-signing transport
	ReadClient  *http.Client
}

func NewTwitterClient(cfg config.Config) *TwitterClient {
	oauthConfig := oauth1.NewConfig(cfg.TwitterAPIKey, cfg.TwitterAPISecret)
	token := oauth1.NewToken(cfg.TwitterAccessToken, cfg.TwitterAccessTokenSecret)
	writeClient := oauthConfig.Client(oauth1.NoContext, token)
	writeClient.Timeout = 30 * time.Second

	return &TwitterClient{
		BaseURL:     twitterAPIBase,
		BearerToken: cfg.TwitterBearerToken,
		WriteClient: writeClient,
		ReadClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// PostTweet publishes a standalone tweet and returns its id.
func (c *TwitterClient) PostTweet(ctx context.Context, text string) (string, error) {
	return c.createTweet(ctx, createTweetRequest{Text: text})
}

// ReplyTweet posts a reply in the conversation of the given tweet.
func (c *TwitterClient) ReplyTweet(ctx context.Context, inReplyTo, text string) (string, error) {
	return c.createTweet(ctx, createTweetRequest{
		Text:  text,
		Reply: &tweetReply{InReplyToTweetID: inReplyTo},
	})
}

func (c *TwitterClient) createTweet(ctx context.Context, payload createTweetRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode tweet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create tweet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.WriteClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call twitter: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var parsed createTweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode tweet response: %w", err)
	}
	if parsed.Data.ID == "" {
		return "", errors.New("twitter returned no tweet id")
	}
	return parsed.Data.ID, nil
}

type searchRecentResponse struct {
	Data []struct {
		ID       string `json:"id"`
		Text     string `json:"text"`
		AuthorID string `json:"author_id"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Username        string `json:"username"`
			ProfileImageURL string `json:"profile_image_url"`
			Verified        bool   `json:"verified"`
		} `json:"users"`
	} `json:"includes"`
}

// ConversationReplies fetches every reply in the conversation rooted at the
// given tweet, excluding the root tweet itself.
func (c *TwitterClient) ConversationReplies(ctx context.Context, tweetID string) ([]Reply, error) {
	u, err := url.Parse(c.BaseURL + "/2/tweets/search/recent")
	if err != nil {
		return nil, fmt.Errorf("failed to parse search URL: %w", err)
	}
	q := u.Query()
	q.Set("query", "conversation_id:"+tweetID)
	q.Set("tweet.fields", "created_at,author_id,text,in_reply_to_user_id")
	q.Set("user.fields", "name,username,profile_image_url,verified")
	q.Set("expansions", "author_id")
	q.Set("max_results", "50")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.BearerToken)

	resp, err := c.ReadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call twitter: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var parsed searchRecentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	authors := make(map[string]models.Author, len(parsed.Includes.Users))
	for _, user := range parsed.Includes.Users {
		authors[user.ID] = models.Author{
			ID:              user.ID,
			Username:        user.Username,
			Name:            user.Name,
			ProfileImageURL: user.ProfileImageURL,
			Verified:        user.Verified,
		}
	}

	replies := make([]Reply, 0, len(parsed.Data))
	for _, tweet := range parsed.Data {
		if tweet.ID == tweetID {
			continue
		}
		replies = append(replies, Reply{
			ID:       tweet.ID,
			Text:     tweet.Text,
			AuthorID: tweet.AuthorID,
			Author:   authors[tweet.AuthorID],
		})
	}
	return replies, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrRateLimited, string(body))
	}
	return fmt.Errorf("twitter returned status %d: %s", resp.StatusCode, string(body))
}
