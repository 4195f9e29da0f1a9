package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Pool *pgxpool.Pool
}

func New() (*Database, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	db := &Database{Pool: pool}
	if err := db.initSchema(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *Database) initSchema() error {
	ctx := context.Background()

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	);

	CREATE TABLE IF NOT EXISTS actas (
		id SERIAL PRIMARY KEY,
		nombre TEXT NOT NULL,
		archivo TEXT,
		fecha_subida TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		subido_por INT REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS lecturas (
		id SERIAL PRIMARY KEY,
		usuario_id INT REFERENCES users(id),
		acta_id INT REFERENCES actas(id),
		fecha_lectura TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		conforme BOOLEAN DEFAULT FALSE,
		firma TEXT,
		UNIQUE (usuario_id, acta_id)
	);

	CREATE TABLE IF NOT EXISTS sugerencias (
		id SERIAL PRIMARY KEY,
		acta_id INT REFERENCES actas(id),
		usuario_id INT REFERENCES users(id),
		comentario TEXT NOT NULL,
		respuesta_admin TEXT,
		fecha TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cronogramas (
		id SERIAL PRIMARY KEY,
		nombre TEXT NOT NULL,
		archivo TEXT,
		fecha TIMESTAMP,
		fecha_subida TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		subido_por INT REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS verificaciones_actas (
		id SERIAL PRIMARY KEY,
		acta_id INT NOT NULL REFERENCES actas(id),
		usuario_id INT NOT NULL REFERENCES users(id),
		fecha_verificacion TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (acta_id, usuario_id)
	);

	CREATE INDEX IF NOT EXISTS idx_lecturas_acta ON lecturas(acta_id);
	CREATE INDEX IF NOT EXISTS idx_sugerencias_acta ON sugerencias(acta_id);
	CREATE INDEX IF NOT EXISTS idx_verificaciones_acta ON verificaciones_actas(acta_id);
	`

	_, err := db.Pool.Exec(ctx, schema)
	if err != nil {
		return err
	}

	// Columns added after the first deployments.
	_, err = db.Pool.Exec(ctx, "ALTER TABLE lecturas ADD COLUMN IF NOT EXISTS firma TEXT")
	if err != nil {
		return err
	}

	_, err = db.Pool.Exec(ctx, "ALTER TABLE sugerencias ADD COLUMN IF NOT EXISTS respuesta_admin TEXT")
	if err != nil {
		return err
	}

	return nil
}

// IsIntegrityViolation reports whether err is a PostgreSQL integrity
// constraint violation (SQLSTATE class 23).
func IsIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
	}
	return false
}

func (db *Database) Close() {
	db.Pool.Close()
}
