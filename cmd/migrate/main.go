package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
    id SERIAL PRIMARY KEY,
    form_id TEXT NOT NULL UNIQUE,
    account_email TEXT NOT NULL,
    sender_email TEXT NOT NULL DEFAULT '',
    recipient_emails TEXT[] NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    scheduled_datetime TEXT NOT NULL,
    attachments TEXT[] NOT NULL DEFAULT '{}',
    job_id TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS email_schedules (
    id SERIAL PRIMARY KEY,
    form_id TEXT NOT NULL,
    account_email TEXT NOT NULL,
    job_id TEXT NOT NULL,
    email_status TEXT NOT NULL,
    sender TEXT NOT NULL DEFAULT '',
    primary_recipient TEXT NOT NULL DEFAULT '',
    open_rate INT NOT NULL DEFAULT 0,
    click_through_rate INT NOT NULL DEFAULT 0,
    scheduled_datetime TEXT NOT NULL,
    sent_datetime TIMESTAMPTZ NULL,
    UNIQUE (form_id, account_email)
);

CREATE INDEX IF NOT EXISTS idx_email_schedules_job_id ON email_schedules (job_id);
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(schema); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migration complete")
}
