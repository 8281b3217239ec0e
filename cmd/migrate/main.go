package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var statements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name text NOT NULL DEFAULT '',
		role text NOT NULL DEFAULT '',
		department text NOT NULL DEFAULT '',
		bio text NOT NULL DEFAULT '',
		experience_level text NOT NULL DEFAULT '',
		linkedin_profile text NOT NULL DEFAULT '',
		twitter_profile text NOT NULL DEFAULT '',
		skills text[] NOT NULL DEFAULT '{}',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS banners (
		id uuid PRIMARY KEY,
		date date NOT NULL,
		title text NOT NULL,
		description text NOT NULL,
		content text NOT NULL,
		hot_topic text NOT NULL DEFAULT '',
		image_url text NOT NULL DEFAULT '',
		image_binary bytea,
		image_content_type text NOT NULL DEFAULT '',
		meta jsonb NOT NULL DEFAULT '{}',
		status text NOT NULL DEFAULT 'active',
		expires_at timestamptz NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS banners_date_key ON banners (date)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL REFERENCES users (id),
		source_user_id uuid REFERENCES users (id),
		kind text NOT NULL,
		status text NOT NULL DEFAULT 'pending',
		recommendations jsonb NOT NULL DEFAULT '{}',
		analysis_text text NOT NULL DEFAULT '',
		ai_provider text NOT NULL DEFAULT '',
		metadata jsonb NOT NULL DEFAULT '{}',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS recommendations_user_idx ON recommendations (user_id, created_at DESC)`,
}

func main() {
	var timeoutFlag int
	flag.IntVar(&timeoutFlag, "timeout", 30, "overall migration timeout in seconds")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutFlag)*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		exitWithError(fmt.Errorf("ping database: %w", err))
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			exitWithError(fmt.Errorf("statement %d: %w", i+1, err))
		}
	}

	fmt.Printf("applied %d statements\n", len(statements))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
