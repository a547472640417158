// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed should be callable safely: it creates data only when tables are
	// empty. We call it twice to verify idempotency. We don't clear the
	// database first because other test packages may be running
	// concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	// Verify admin user exists.
	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", SeedAdminEmail).Scan(&userCount); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 admin user, got %d", userCount)
	}

	// Verify the default category exists exactly once.
	var catCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories WHERE slug = 'uncategorized'").Scan(&catCount); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if catCount > 1 {
		t.Errorf("expected at most 1 uncategorized category, got %d", catCount)
	}
}
