// services/lifecycle.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"game-contest-system/clients"
	"game-contest-system/models"
	"game-contest-system/utils"

	"github.com/google/uuid"
)

// Platform is the social-platform collaborator: publish a post, reply in a
// conversation, fetch a conversation's replies.
type Platform interface {
	PostTweet(ctx context.Context, text string) (string, error)
	ReplyTweet(ctx context.Context, inReplyTo, text string) (string, error)
	ConversationReplies(ctx context.Context, tweetID string) ([]clients.Reply, error)
}

// Candidate minute durations when no explicit game duration is configured.
var randomDurationMinutes = []int{30, 60, 90, 120, 150, 180}

const (
	noRepliesAnnouncement = "🎮 GAME CLOSED 🎮\n\n" +
		"⚠️ NO REPLIES RECEIVED.\n" +
		"😢 NO WINNER DECLARED."
	noValidWalletAnnouncement = "🎮 GAME CLOSED 🎮\n\n" +
		"⚠️ NO VALID WALLET FOUND.\n" +
		"🙁 PLEASE INCLUDE YOUR SOLANA WALLET ADDRESS NEXT TIME."
	noWinnerAnnouncement = "🎮 GAME CLOSED 🎮\n\n" +
		"😞 NO IMPRESSIVE SUBMISSION RECEIVED.\n" +
		"🙁 NO WINNER DECLARED, BETTER LUCK NEXT TIME!"
	winnerAnnouncementFmt = "🎮 GAME CLOSED 🎮\n\n" +
		"🏆 WINNER ANNOUNCED:\n" +
		"👉 Wallet: %s\n\n" +
		"🎉 CONGRATULATIONS!"
)

// Lifecycle drives a game through its two states. It is the only writer of
// game records; the scheduler just triggers OpenGame and CloseSweep.
type Lifecycle struct {
	Store    GameStore
	Platform Platform
	Selector *WinnerSelector

	// GameDuration fixes the contest playtime. Zero draws a random
	// duration per game.
	GameDuration time.Duration

	now func() time.Time
}

func NewLifecycle(store GameStore, platform Platform, selector *WinnerSelector, gameDuration time.Duration) *Lifecycle {
	return &Lifecycle{
		Store:        store,
		Platform:     platform,
		Selector:     selector,
		GameDuration: gameDuration,
		now:          time.Now,
	}
}

// OpenGame creates one new game: picks a type, publishes the announcement,
// and persists the open record. If publishing fails nothing is persisted.
func (l *Lifecycle) OpenGame(ctx context.Context) error {
	gameType := models.GameTypeList[rand.Intn(len(models.GameTypeList))]
	spec := models.GameTypes[gameType]

	duration := l.GameDuration
	if duration <= 0 {
		duration = time.Duration(randomDurationMinutes[rand.Intn(len(randomDurationMinutes))]) * time.Minute
	}
	body := strings.ReplaceAll(spec.Template, models.ResultTimePlaceholder,
		fmt.Sprintf("In %d minutes.", int(duration.Minutes())))

	log.Printf("creating new game game_type=%s duration=%s", gameType, duration)
	tweetID, err := l.Platform.PostTweet(ctx, body)
	if err != nil {
		return fmt.Errorf("failed to post new game tweet: %w", err)
	}
	if tweetID == "" {
		return errors.New("no tweet id returned for new game, aborting game creation")
	}

	now := l.now()
	game := &models.ContestGame{
		GameID:    uuid.NewString(),
		TweetID:   tweetID,
		GameType:  gameType,
		Title:     "Game " + spec.Label,
		Status:    models.StatusOpen,
		CreatedAt: now,
		CloseAt:   now.Add(duration),
		UpdatedAt: now,
	}
	if err := l.Store.Create(ctx, game); err != nil {
		return fmt.Errorf("failed to persist game %s: %w", game.GameID, err)
	}
	log.Printf("new game created game_id=%s tweet_id=%s game_type=%s close_at=%s",
		game.GameID, tweetID, gameType, game.CloseAt.Format(time.RFC3339))
	return nil
}

// CloseSweep lists open games and attempts to close every one whose
// deadline has passed. Games are independent; one failure never stops the
// sweep.
func (l *Lifecycle) CloseSweep(ctx context.Context) {
	games, err := l.Store.ListOpen(ctx)
	if err != nil {
		log.Printf("failed to list open games: %v", err)
		return
	}
	now := l.now()
	for _, game := range games {
		if now.Before(game.CloseAt) {
			continue
		}
		l.closeGame(ctx, game)
	}
}

func (l *Lifecycle) closeGame(ctx context.Context, game models.ContestGame) {
	log.Printf("processing game closure game_id=%s", game.GameID)

	replies, err := l.Platform.ConversationReplies(ctx, game.TweetID)
	if err != nil {
		// Fetch errors block closure: the game stays open and the next
		// sweep retries. Announcement errors below do not.
		if errors.Is(err, clients.ErrRateLimited) {
			log.Printf("rate limit reached for game_id=%s: %v", game.GameID, err)
		} else {
			log.Printf("error fetching replies for game_id=%s: %v", game.GameID, err)
		}
		return
	}

	if len(replies) == 0 {
		log.Printf("no replies found for game_id=%s, closing with no winner", game.GameID)
		l.closeWithoutWinner(ctx, game, noRepliesAnnouncement)
		return
	}

	entries := buildEntries(replies)
	if len(entries) == 0 {
		log.Printf("no valid wallet addresses found for game_id=%s, closing with no winner", game.GameID)
		l.closeWithoutWinner(ctx, game, noValidWalletAnnouncement)
		return
	}

	verdict := l.Selector.SelectWinner(ctx, game.GameType, entries)
	if verdict.Wallet == "" {
		log.Printf("judge declared no winner for game_id=%s", game.GameID)
		l.closeWithoutWinner(ctx, game, noWinnerAnnouncement)
		return
	}

	winnerTweetID, err := l.Platform.ReplyTweet(ctx, game.TweetID, fmt.Sprintf(winnerAnnouncementFmt, verdict.Wallet))
	if err != nil {
		log.Printf("error posting winner announcement for game_id=%s: %v", game.GameID, err)
		winnerTweetID = ""
	}

	winning, _ := entryByReply(verdict.ReplyID, entries)
	closed, err := l.Store.CloseOpen(ctx, game.GameID, map[string]any{
		"winner_tweet_id":    winnerTweetID,
		"winner_wallet":      verdict.Wallet,
		"winner_reply_id":    verdict.ReplyID,
		"winner_tweet_text":  winning.Text,
		"winner_username":    winning.Author.Username,
		"winner_name":        winning.Author.Name,
		"winner_image_url":   winning.Author.ProfileImageURL,
		"winner_author_id":   winning.Author.ID,
		"winner_is_verified": winning.Author.Verified,
		"chain_of_thought":   verdict.ChainOfThought,
	})
	if err != nil {
		log.Printf("failed to close game_id=%s: %v", game.GameID, err)
		return
	}
	if !closed {
		log.Printf("game_id=%s was already closed, winner fields left untouched", game.GameID)
		return
	}
	log.Printf("game closed with winner game_id=%s wallet=%s reply_id=%s", game.GameID, verdict.Wallet, verdict.ReplyID)
}

// closeWithoutWinner posts the closure announcement and flips the game to
// closed with empty winner fields. An announcement failure only leaves
// winner_tweet_id empty; the closure itself always proceeds.
func (l *Lifecycle) closeWithoutWinner(ctx context.Context, game models.ContestGame, announcement string) {
	announcementID, err := l.Platform.ReplyTweet(ctx, game.TweetID, announcement)
	if err != nil {
		log.Printf("error posting closure announcement for game_id=%s: %v", game.GameID, err)
		announcementID = ""
	}
	closed, err := l.Store.CloseOpen(ctx, game.GameID, map[string]any{
		"winner_tweet_id":   announcementID,
		"winner_wallet":     "",
		"winner_tweet_text": "",
		"chain_of_thought":  "",
	})
	if err != nil {
		log.Printf("failed to close game_id=%s: %v", game.GameID, err)
		return
	}
	if !closed {
		log.Printf("game_id=%s was already closed", game.GameID)
		return
	}
	log.Printf("game closed with no winner game_id=%s", game.GameID)
}

// buildEntries keeps replies that contain at least one valid wallet
// address; the first address in a reply wins.
func buildEntries(replies []clients.Reply) []models.Entry {
	var entries []models.Entry
	for _, reply := range replies {
		addresses := utils.ExtractSolanaAddresses(reply.Text)
		if len(addresses) == 0 {
			continue
		}
		author := reply.Author
		if author.ID == "" {
			author.ID = reply.AuthorID
		}
		entries = append(entries, models.Entry{
			Wallet:  addresses[0],
			Text:    reply.Text,
			ReplyID: reply.ID,
			Author:  author,
		})
	}
	return entries
}
