// services/selector.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"game-contest-system/models"
)

// Judge is the external ranking collaborator. Given a fully built prompt it
// returns a structured verdict or an error (transport failures and
// unparseable output are not distinguished here).
type Judge interface {
	Judge(ctx context.Context, prompt string) (models.Verdict, error)
}

// FallbackPolicy picks a winner when the judge cannot. The choice of
// policy is deliberately injectable: "first entry" is the historical
// behavior, not a fairness statement.
type FallbackPolicy func(entries []models.Entry) models.Entry

// FirstEntryFallback returns the first entry in the list.
func FirstEntryFallback(entries []models.Entry) models.Entry {
	return entries[0]
}

const fallbackChainOfThought = "Fallback: selected entry deterministically because the judge output could not be used."

const judgeContext = "Context: This is a game where many players participate by replying with creative answers " +
	"and their wallet addresses. Your role is to evaluate each response with focus on creativity, " +
	"emotion, and adherence to game rules."

// WinnerSelector builds the judging prompt for a game type, delegates to
// the judge, and guarantees a usable verdict via the fallback policy.
type WinnerSelector struct {
	Judge    Judge
	Fallback FallbackPolicy
}

func NewWinnerSelector(judge Judge) *WinnerSelector {
	return &WinnerSelector{Judge: judge, Fallback: FirstEntryFallback}
}

// SelectWinner returns the verdict for the given entries. entries must be
// non-empty; the lifecycle handles the no-entries case before getting here.
// An empty verdict wallet means the judge declared no submission worth
// rewarding, which is a valid outcome, not a failure.
func (s *WinnerSelector) SelectWinner(ctx context.Context, gameType string, entries []models.Entry) models.Verdict {
	verdict, err := s.Judge.Judge(ctx, buildJudgePrompt(gameType, entries))
	if err != nil {
		log.Printf("judge failed for game_type=%s, using fallback: %v", gameType, err)
		return s.fallbackVerdict(entries)
	}
	if verdict.Wallet == "" {
		return verdict
	}
	entry, ok := entryByReply(verdict.ReplyID, entries)
	if !ok {
		log.Printf("judge verdict references unknown reply_id=%s, using fallback", verdict.ReplyID)
		return s.fallbackVerdict(entries)
	}
	if entry.Wallet != verdict.Wallet {
		log.Printf("judge verdict wallet does not match entry reply_id=%s, using fallback", verdict.ReplyID)
		return s.fallbackVerdict(entries)
	}
	return verdict
}

func (s *WinnerSelector) fallbackVerdict(entries []models.Entry) models.Verdict {
	entry := s.Fallback(entries)
	return models.Verdict{
		Wallet:         entry.Wallet,
		ReplyID:        entry.ReplyID,
		ChainOfThought: fallbackChainOfThought,
	}
}

func buildJudgePrompt(gameType string, entries []models.Entry) string {
	encoded, err := json.Marshal(entries)
	if err != nil {
		encoded = []byte("[]")
	}
	return fmt.Sprintf(
		"%s\nYou are a fair and witty game judge. Given the following list of reply entries in JSON format:\n%s\n"+
			"For game type '%s', %s\n"+
			"Respond with a JSON object of the form "+
			`{"result": {"wallet": "...", "reply_id": "..."}, "chain_of_thought": "..."}. `+
			"The wallet and reply_id must come from one of the entries. "+
			"Use an empty wallet if no submission is impressive enough.",
		judgeContext, encoded, gameType, models.RubricFor(gameType),
	)
}

func entryByReply(replyID string, entries []models.Entry) (models.Entry, bool) {
	for _, entry := range entries {
		if entry.ReplyID == replyID {
			return entry, true
		}
	}
	return models.Entry{}, false
}
