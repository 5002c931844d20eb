// models/game_types.go
package models

const (
	GameTypeFunFact           = "fun_fact"
	GameTypeEmojiStory        = "emoji_story"
	GameTypeBestJoke          = "best_joke"
	GameTypeRandomWallet      = "random_wallet"
	GameTypeImprovStory       = "improv_story"
	GameTypeAbstractPoetry    = "abstract_poetry"
	GameTypeCreativeChallenge = "creative_challenge"
)

// ResultTimePlaceholder is replaced with the contest deadline when the
// announcement is rendered.
const ResultTimePlaceholder = "{result_time}"

// GameTypeSpec holds everything that varies per game type: the label used
// for the stored title, the announcement body, and the one-line rubric the
// judge is given. New types are added here without touching the state
// machine.
type GameTypeSpec struct {
	Label    string
	Template string
	Rubric   string
}

// FallbackRubric is used when a stored game carries a type that is no
// longer in the table. Permissive on purpose: an unknown type still gets
// judged rather than erroring out.
const FallbackRubric = "pick one entry."

var GameTypes = map[string]GameTypeSpec{
	GameTypeFunFact: {
		Label: "Fun Fact",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Fun Fact\n" +
			"🌸 /REPLY: An interesting and little-known fact.\n" +
			"💒 /RULE: The most fascinating fact wins.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick the entry with the most interesting fact.",
	},
	GameTypeEmojiStory: {
		Label: "Emoji Story",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Emoji Story\n" +
			"🌸 /REPLY: With a short story using only emojis.\n" +
			"💒 /RULE: The most creative emoji story wins.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick the entry with the most creative emoji story.",
	},
	GameTypeBestJoke: {
		Label: "Best Joke",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Best Joke\n" +
			"🌸 /REPLY: Your best joke.\n" +
			"💒 /RULE: The best joke wins.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick the entry with the best joke.",
	},
	GameTypeRandomWallet: {
		Label: "Random Wallet",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Random Wallet\n" +
			"🌸 /REPLY: Submit your Solana wallet address.\n" +
			"💒 /RULE: A random selection will determine the winner.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick one entry at random, simulating a random selection. don't care about the content. it just needs to be random",
	},
	GameTypeImprovStory: {
		Label: "Improv Story",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Improv Story\n" +
			"🌸 /REPLY: Complete the story: “Once upon a time…\n" +
			"💒 /RULE: The most imaginative continuation wins.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick the entry with the most imaginative story continuation.",
	},
	GameTypeAbstractPoetry: {
		Label: "Abstract Poetry",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Abstract Poetry\n" +
			"🌸 /REPLY: Complete the poem: “Under neon moons, the meme…\n" +
			"💒 /RULE: The best poetic expression wins.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick the entry with the best poetic expression.",
	},
	GameTypeCreativeChallenge: {
		Label: "Creative Challenge",
		Template: "🎀 /GAME OPEN 🎀\n" +
			"🌷 /GAME: Creative Challenge\n" +
			"🌸 /REPLY: Propose your unique challenge.\n" +
			"💒 /RULE: The most intriguing challenge wins.\n" +
			"💌 /INCLUDE: Your Solana wallet address.\n" +
			"💝 /PRIZE: 0.1 SOL.\n" +
			"🦩 /RESULT: {result_time}",
		Rubric: "pick the entry with the most intriguing creative challenge.",
	},
}

// GameTypeList is the draw order for random type selection. Kept explicit
// so the pick is uniform and stable across map iteration order.
var GameTypeList = []string{
	GameTypeFunFact,
	GameTypeEmojiStory,
	GameTypeBestJoke,
	GameTypeRandomWallet,
	GameTypeImprovStory,
	GameTypeAbstractPoetry,
	GameTypeCreativeChallenge,
}

// RubricFor returns the judging rubric for a game type, falling back to the
// generic rubric for unknown types.
func RubricFor(gameType string) string {
	if spec, ok := GameTypes[gameType]; ok {
		return spec.Rubric
	}
	return FallbackRubric
}
