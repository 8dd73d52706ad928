package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/peerfact/peerfact/config"
	"github.com/peerfact/peerfact/pkg/helpers"
)

// Seeds a demo reporter plus a couple of claims with mixed verifications so
// the feed and verdict endpoints have something to show out of the box.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	reporterID := upsertUser(db, "demoReporter", hash, false)
	fmt.Printf("seeded user: id=%s name=demoReporter password=%s\n", reporterID, password)

	checkerIDs := make([]string, 0, 3)
	for _, name := range []string{"checker-one", "checker-two", "checker-three"} {
		checkerIDs = append(checkerIDs, upsertUser(db, name, hash, false))
	}

	claimID := upsertClaim(db, reporterID,
		"Officials confirmed the new reservoir opened to the public this week",
		"https://apnews.com/example")
	fmt.Printf("seeded claim: id=%s\n", claimID)

	stances := []string{"support", "support", "refute"}
	for i, checkerID := range checkerIDs {
		if _, err := db.Exec(`
			INSERT INTO verifications (claim_id, author_id, stance, source_url, weight_at_submission)
			SELECT $1, $2, $3, $4, 1.0
			WHERE NOT EXISTS (
				SELECT 1 FROM verifications WHERE claim_id = $1 AND author_id = $2
			)
		`, claimID, checkerID, stances[i], "https://reuters.com/example"); err != nil {
			log.Fatalf("failed to seed verification: %v", err)
		}
	}
	fmt.Println("seeded verifications: 2 support, 1 refute")
}

func upsertUser(db *sql.DB, name, hash string, anonymous bool) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (display_name, password_hash, is_anonymous)
		VALUES ($1, $2, $3)
		ON CONFLICT (display_name) DO UPDATE SET updated_at = now()
		RETURNING id
	`, name, hash, anonymous).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", name, err)
	}
	return id
}

func upsertClaim(db *sql.DB, authorID, text, link string) string {
	var id string
	err := db.QueryRow(`SELECT id FROM claims WHERE author_id = $1 AND text = $2`, authorID, text).Scan(&id)
	if err == nil {
		return id
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("failed to look up existing claim: %v", err)
	}
	err = db.QueryRow(`
		INSERT INTO claims (author_id, text, link, ai_label, ai_summary, ai_confidence)
		VALUES ($1, $2, $3, 'Likely True', $2, 0.8)
		RETURNING id
	`, authorID, text, link).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed claim: %v", err)
	}
	return id
}
