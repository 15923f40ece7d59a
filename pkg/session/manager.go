package session

import (
	"database/sql"
	"time"
)

type MySQLSessionRepo struct {
	DB *sql.DB
}

func NewMySQLSessionRepo(db *sql.DB) *MySQLSessionRepo {
	return &MySQLSessionRepo{DB: db}
}

func (r *MySQLSessionRepo) Create(cpf string, sessionID string) (string, error) {
	_, err := r.DB.Exec(`
		INSERT INTO sessions (id, cpf, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, cpf, time.Now(), time.Now().Add(TokenTTL))

	return sessionID, err
}

func (r *MySQLSessionRepo) IsValid(cpf string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE cpf = ? AND expires_at > ?
		)
	`, cpf, time.Now().UTC()).Scan(&exists)
	return exists, err
}

func (r *MySQLSessionRepo) Invalidate(cpf string) error {
	_, err := r.DB.Exec(`
		DELETE FROM sessions WHERE cpf = ?
	`, cpf)
	return err
}
