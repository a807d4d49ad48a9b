package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pageza/alchemorsel-ideas/backend/config"
	"github.com/pageza/alchemorsel-ideas/backend/internal/logger"
	"github.com/pageza/alchemorsel-ideas/backend/internal/service"
)

// Fixed development identities so tokens stay valid across database resets.
var devUsers = []struct {
	id       string
	username string
}{
	{"6f1c1e2a-5b7d-4c3e-9a10-000000000001", "johndoe"},
	{"6f1c1e2a-5b7d-4c3e-9a10-000000000002", "janesmith"},
	{"6f1c1e2a-5b7d-4c3e-9a10-000000000003", "bobwilson"},
}

func main() {
	ttl := flag.Duration("ttl", 30*24*time.Hour, "Token lifetime")
	flag.Parse()

	log := logger.New("alchemorsel-dev-tokens", "info")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.IsProduction() {
		log.Fatal().Msg("Refusing to issue development tokens in production")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, *ttl)
	for _, u := range devUsers {
		token, err := tokens.GenerateToken(u.id, u.username)
		if err != nil {
			log.Fatal().Err(err).Str("username", u.username).Msg("Failed to sign token")
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", u.username, u.id, token)
	}
}
