// internal/dialogue/openrouter.go
//
// OpenRouter-backed Orchestrator.
// Responsibilities:
//   - One chat-completions call per remaining persona, fanned out in
//     parallel and bounded by a single per-round deadline.
//   - At most maxAttempts tries per persona, then a per-persona fallback
//     line; a round always completes.
//   - Response post-processing: strip markdown fences, parse the strict
//     JSON contract, keep the hidden internal_thought server-side.

package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mole-game/internal/game"
)

const defaultURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterConfig configures the provider endpoint and HTTP behavior.
type OpenRouterConfig struct {
	APIKey      string
	URL         string        // defaults to the public OpenRouter endpoint
	HTTPClient  *http.Client  // defaults to http.DefaultClient
	Timeout     time.Duration // per-round budget; defaults to 30s
	MaxAttempts int           // per-persona tries before fallback; defaults to 2
}

// OpenRouter generates persona dialogue through the OpenRouter API.
type OpenRouter struct {
	cfg OpenRouterConfig
}

// NewOpenRouter builds the provider, filling in config defaults.
func NewOpenRouter(cfg OpenRouterConfig) *OpenRouter {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	return &OpenRouter{cfg: cfg}
}

// GenerateRound asks every remaining persona for a statement. The mole is
// prompted with the decoy word, everyone else with the secret word. A
// persona whose generation fails speaks its fallback line instead, so the
// returned round is always complete and in turn order.
func (o *OpenRouter) GenerateRound(ctx context.Context, req Request) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	lines := make([]Line, len(req.Remaining))
	var wg sync.WaitGroup
	for i, p := range req.Remaining {
		word := req.SecretWord
		if p == req.Mole {
			word = req.DecoyWord
		}
		wg.Add(1)
		go func(i int, p game.Persona, word string) {
			defer wg.Done()
			msg, err := o.generateOne(ctx, p, word, req.Category, req.Round)
			if err != nil {
				log.Warn().Err(err).Str("persona", string(p)).Int("round", req.Round).Msg("dialogue generation failed")
				lines[i] = Fallback([]game.Persona{p}, req.Round)[0]
				return
			}
			lines[i] = Line{ModelName: string(p), Message: msg}
		}(i, p, word)
	}
	wg.Wait()
	return lines, nil
}

// generateOne requests a single persona's statement, retrying transient
// failures up to MaxAttempts.
func (o *OpenRouter) generateOne(ctx context.Context, p game.Persona, word, category string, round int) (string, error) {
	slug, ok := modelSlugs[p]
	if !ok {
		return "", fmt.Errorf("no model slug for persona %s", p)
	}
	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg, err := o.call(ctx, slug, systemPrompt(p, word, category, round), userPrompt(round))
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// chat-completions wire types, trimmed to the fields this client uses.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenRouter) call(ctx context.Context, model, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.8,
		MaxTokens:   300,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := o.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("openrouter status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var cr chatResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}
	return extractMessage(cr.Choices[0].Message.Content), nil
}

// extractMessage pulls the player-visible message out of the model's JSON
// reply. internal_thought stays server-side; on parse failure the raw
// content is used, truncated.
func extractMessage(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	if len(content) > 200 {
		return content[:200]
	}
	return content
}
