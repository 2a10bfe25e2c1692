package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mole-game/internal/daily"
	"github.com/robalobadob/mole-game/internal/dialogue"
	"github.com/robalobadob/mole-game/internal/httpserver"
	"github.com/robalobadob/mole-game/internal/store"
	"github.com/robalobadob/mole-game/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word pair catalog")
	}
	log.Info().Int("pairs", words.Count()).Msg("word pair catalog loaded")

	gen := daily.NewGenerator(getEnv("GAME_SECRET", "dev_secret_change_me"))

	var orch dialogue.Orchestrator
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		orch = dialogue.NewOpenRouter(dialogue.OpenRouterConfig{
			APIKey:  key,
			URL:     os.Getenv("OPENROUTER_URL"),
			Timeout: envDuration("DIALOGUE_TIMEOUT", 30*time.Second),
		})
	} else {
		log.Warn().Msg("OPENROUTER_API_KEY not set, serving placeholder dialogue")
		orch = dialogue.Static{}
	}

	guard := store.NewMemoryGuard()
	if !envBool("STRICT_REPLAY", true) {
		guard = store.NewNopGuard()
	}

	srv := httpserver.New(gen, orch, guard)
	port := getEnv("PORT", "8000")
	log.Info().Str("port", port).Msg("starting mole-game server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
