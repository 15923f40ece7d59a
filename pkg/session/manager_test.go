package session_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"boletohub/pkg/session"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	assert.NoError(t, err)

	schema := `
	CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		cpf TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);`

	_, err = db.Exec(schema)
	assert.NoError(t, err)

	return db
}

func TestMySQLSessionRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := session.NewMySQLSessionRepo(db)

	const cpf = "12345678901"

	id, err := repo.Create(cpf, "sessabcdefghijklmnopqrst")
	assert.NoError(t, err)
	assert.Equal(t, "sessabcdefghijklmnopqrst", id)

	ok, err := repo.IsValid(cpf)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsValid("00000000000")
	assert.NoError(t, err)
	assert.False(t, ok)

	err = repo.Invalidate(cpf)
	assert.NoError(t, err)

	ok, err = repo.IsValid(cpf)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMySQLSessionRepo_Expired(t *testing.T) {
	db := setupTestDB(t)
	repo := session.NewMySQLSessionRepo(db)

	const cpf = "98765432109"

	_, err := db.Exec(`
		INSERT INTO sessions (id, cpf, created_at, expires_at)
		VALUES (?, ?, datetime('now', '-2 hours'), datetime('now', '-1 hour'))
	`, "expiredsessionid00000000", cpf)
	assert.NoError(t, err)

	ok, err := repo.IsValid(cpf)
	assert.NoError(t, err)
	assert.False(t, ok)
}
