package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Схема (справочно, накатывается вне приложения):
//
//	CREATE TABLE users (
//	    id         text PRIMARY KEY,
//	    name       text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE attendees (
//	    id         text PRIMARY KEY,
//	    slackid    text,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE challenges (
//	    id         text PRIMARY KEY,
//	    name       text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE hacks (
//	    id         text PRIMARY KEY,
//	    name       text NOT NULL,
//	    challenges text[] NOT NULL DEFAULT '{}',
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE teams (
//	    id         text PRIMARY KEY,
//	    name       text NOT NULL UNIQUE,
//	    motto      text,
//	    members    text[] NOT NULL DEFAULT '{}',
//	    entries    text[] NOT NULL DEFAULT '{}',
//	    logo_key   text,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//
// Массивы members/entries/challenges лежат на строке-контейнере, так что
// одно обновление строки атомарно меняет всю связь.

// isUniqueViolation распознаёт сигнал нарушения уникальности от Postgres.
// Вставка выполняется оптимистично, без предварительной проверки id.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}

func checkRowsAffected(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
