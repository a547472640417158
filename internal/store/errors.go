// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/apperr"
)

// PostgreSQL SQLSTATE codes the store reacts to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// slugConflict converts a unique violation on any *_slug_key constraint into
// a DuplicateSlug error. The application-level existence check runs first,
// but only this catches two concurrent inserts of the same slug.
func slugConflict(err error, slug string) error {
	code, constraint := pgCode(err)
	if code == codeUniqueViolation && strings.HasSuffix(constraint, "_slug_key") {
		e := apperr.DuplicateSlug(slug)
		e.Err = err
		return e
	}
	return err
}

// isForeignKeyViolation reports whether err is a 23503 from PostgreSQL.
func isForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// uuidArray renders ids as a PostgreSQL array literal for use with
// = ANY($1::uuid[]). Passing a string keeps the argument a plain driver value.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
