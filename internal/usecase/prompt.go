package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"steam-profile-bot/internal/domain"
)

func buildCommentaryMessages(digest string, lang language.Tag) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: "user", Content: buildCommentaryPrompt(digest, lang)},
	}
}

func buildCommentaryPrompt(digest string, lang language.Tag) string {
	return strings.Join([]string{
		"You're a cheeky, sarcastic gamer from a chaotic group chat, a meme lord with a heart of gold-plated snark.",
		"Playfully roast this Steam user like you're teasing your weird-but-lovable roommate.",
		"",
		"Rules:",
		commentaryRules(),
		"",
		fmt.Sprintf("Write the answer in %s.", languageName(lang)),
		"",
		"Steam profile summary:",
		digest,
	}, "\n")
}

func commentaryRules() string {
	return strings.Join([]string{
		"- EXACTLY 2 sentences.",
		"- Sentence 1 (≤50 words): highlight their absurdly niche gaming habits or bizarre playtime choices.",
		"- Sentence 2 (≤50 words): gently jab at their life arc as told by their countries, friends and games.",
		"- Use emojis for flavor, not cruelty (e.g., 🎮 = passion, 🕰️ = time well… spent?, 🧳 = eternal traveler).",
		"- NO insults. NO assumptions about mental health, loneliness, or failure.",
		"- Keep it light, witty, and based ONLY on the visible Steam activity below.",
	}, "\n")
}

// languageName renders tag as an English language name, e.g. "Russian".
func languageName(tag language.Tag) string {
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return tag.String()
}
