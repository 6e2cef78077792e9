package main

// Seeds an owner operator so a fresh deployment can log in.
//
//	go run ./cmd/seedoperator -username dona.maria -password <pw> -name "Dona Maria"

import (
	"flag"
	"os"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/config"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "owner", "login username")
	password := flag.String("password", "", "plaintext password (required)")
	name := flag.String("name", "Owner", "display name")
	role := flag.String("role", model.RoleOwner, "cashier | manager | owner")
	flag.Parse()

	if *password == "" {
		log.Error().Msg("-password is required")
		os.Exit(2)
	}
	if *role != model.RoleCashier && *role != model.RoleManager && *role != model.RoleOwner {
		log.Error().Str("role", *role).Msg("unknown role")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	op := model.Operator{
		Username:     *username,
		DisplayName:  *name,
		PasswordHash: string(hash),
		Role:         *role,
		Active:       true,
	}
	if err := db.Create(&op).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to create operator")
	}

	log.Info().Str("id", op.ID.String()).Str("username", op.Username).Str("role", op.Role).Msg("operator created")
}
