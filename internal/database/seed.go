// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Default development credentials created by Seed.
const (
	SeedAdminEmail    = "admin@inkwell.local"
	SeedAdminPassword = "admin"
)

// Seed populates the database with initial development data.
// It creates a default admin user and an "uncategorized" category if no
// users exist yet.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, SeedAdminEmail, string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO categories (name, slug, description)
		VALUES ('Uncategorized', 'uncategorized', 'Posts without a specific category')
		ON CONFLICT (slug) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)

	return nil
}
