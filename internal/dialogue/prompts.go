// internal/dialogue/prompts.go
//
// Prompt construction for persona dialogue generation.
// Each persona maps to a real hosted model; the mole's prompt differs from
// the innocents' only in the assigned word.

package dialogue

import (
	"fmt"

	"github.com/robalobadob/mole-game/internal/game"
)

// modelSlugs maps personas to OpenRouter model identifiers.
var modelSlugs = map[game.Persona]string{
	game.PersonaGemini:   "google/gemini-2.0-flash-001",
	game.PersonaClaude:   "anthropic/claude-3.5-sonnet",
	game.PersonaChatGPT:  "openai/gpt-4o-mini",
	game.PersonaGrok:     "x-ai/grok-beta",
	game.PersonaLlama:    "meta-llama/llama-3.3-70b-instruct",
	game.PersonaDeepSeek: "deepseek/deepseek-chat",
}

const systemPromptFormat = `You are an AI model named "%s" playing a social deduction game called "The Mole".

GAME RULES:
- 6 AI models are playing.
- 5 models are INNOCENT and describe the same word.
- 1 model is the MOLE and describes a different word.
- The innocents try to expose the mole; the mole pretends to be innocent.
- A human reads the statements and guesses who the mole is.

YOUR SITUATION:
- Category: %s
- Your assigned word: "%s"
- This is round %d.

IMPORTANT RULES:
1. NEVER say the word itself.
2. Use properties, metaphors, or associations.
3. Keep your answer under 40 words.
4. You may hint at who you find suspicious.
5. Sound natural and convincing.

OUTPUT FORMAT (strict JSON):
{
    "message": "your statement shown to the player",
    "internal_thought": "your hidden strategy (never shown to the player)"
}

Reply with JSON only, nothing else.`

func systemPrompt(p game.Persona, assignedWord, category string, round int) string {
	return fmt.Sprintf(systemPromptFormat, p, category, assignedWord, round)
}

func userPrompt(round int) string {
	if round == 1 {
		return "The game begins! Describe your word for the first round."
	}
	return fmt.Sprintf("This is round %d. Keep describing your word; you may hint at your suspicions.", round)
}
