// models/contest.go
package models

import (
	"time"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// ContestGame is one round of the recurring social game. The lifecycle
// service is the only writer; once Status flips to closed the winner
// fields are never touched again.
type ContestGame struct {
	GameID   string `json:"game_id" gorm:"primaryKey"`
	TweetID  string `json:"tweet_id" gorm:"not null"` // announcement tweet that opened the game
	GameType string `json:"game_type" gorm:"size:64;not null"`
	Title    string `json:"title"`

	Status    string    `json:"status" gorm:"size:16;default:'open';index"` // open | closed
	CreatedAt time.Time `json:"created_at"`
	CloseAt   time.Time `json:"close_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`

	// Winner details, empty until the game is closed with a winner.
	WinnerTweetID    string `json:"winner_tweet_id"` // closure announcement tweet
	WinnerWallet     string `json:"winner_wallet"`
	WinnerReplyID    string `json:"winner_reply_id"`
	WinnerTweetText  string `json:"winner_tweet_text"`
	WinnerUsername   string `json:"winner_username"`
	WinnerName       string `json:"winner_name"`
	WinnerImageURL   string `json:"winner_image_url"`
	WinnerAuthorID   string `json:"winner_author_id"`
	WinnerIsVerified bool   `json:"winner_is_verified"`
	ChainOfThought   string `json:"chain_of_thought" gorm:"type:text"`
}

// Author is the reply author as returned by the platform's user expansion.
type Author struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
	Verified        bool   `json:"verified"`
}

// Entry is a validated reply to a game announcement. Entries are rebuilt
// from the platform on every close attempt and never persisted.
type Entry struct {
	Wallet  string `json:"wallet"`
	Text    string `json:"text"`
	ReplyID string `json:"reply_id"`
	Author  Author `json:"author"`
}

// Verdict is the judge's structured decision. An empty Wallet means the
// judge found no submission worth rewarding.
type Verdict struct {
	Wallet         string `json:"wallet"`
	ReplyID        string `json:"reply_id"`
	ChainOfThought string `json:"chain_of_thought"`
}
