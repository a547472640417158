// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// testAuthor creates a throwaway author. It is removed after every other
// cleanup registered later in the test has run.
func testAuthor(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := "author-" + uuid.NewString() + "@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := NewUserStore(db).Create(context.Background(), email, "pass", "Store Test", models.RoleAuthor)
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	return u
}

// testPost creates a post with a unique slug and removes it (with its
// comments) on cleanup.
func testPost(t *testing.T, db *sql.DB, authorID uuid.UUID, status models.PostStatus, tagIDs ...uuid.UUID) *models.Post {
	t.Helper()
	ctx := context.Background()
	s := NewPostStore(db)

	p := &models.Post{
		Title:    "Store Test Post",
		Slug:     "store-test-" + uuid.NewString()[:8],
		Content:  "one two three",
		Status:   status,
		ReadTime: 1,
		AuthorID: authorID,
	}
	id, err := s.Create(ctx, p, tagIDs)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { s.Delete(context.Background(), id) })

	created, err := s.FindByID(ctx, id)
	if err != nil || created == nil {
		t.Fatalf("find created post: %v", err)
	}
	return created
}
