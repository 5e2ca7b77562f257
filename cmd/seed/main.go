package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/feedline/backend/config"
	"github.com/feedline/backend/pkg/helpers"
)

// Seeds demo accounts. Registration is handled by a separate service, so
// local environments get their users from here.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := []struct {
		email, name, password, avatar string
	}{
		{"alice@feedline.dev", "Alice", "password123", ""},
		{"bob@feedline.dev", "Bob", "password123", ""},
		{"carol@feedline.dev", "Carol", "password123", ""},
	}

	for _, u := range users {
		hash, err := helpers.HashPassword(u.password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, password_hash, name, avatar_url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, u.email, hash, u.name, u.avatar).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", id, u.email, u.name, u.password)
	}
}
