package db

import (
	"context"

	"github.com/Frankvj09/Actas/internal/models"
)

func (db *Database) CreateUser(ctx context.Context, username, passwordHash string, role models.Role) (*models.User, error) {
	var user models.User
	var roleStr string

	err := db.Pool.QueryRow(ctx,
		"INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, username, role",
		username, passwordHash, string(role),
	).Scan(&user.ID, &user.Username, &roleStr)

	if err != nil {
		return nil, err
	}

	user.Role = models.Role(roleStr)
	return &user, nil
}

func (db *Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	var roleStr string

	err := db.Pool.QueryRow(ctx,
		"SELECT id, username, password_hash, role FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &roleStr)

	if err != nil {
		return nil, err
	}

	user.Role = models.Role(roleStr)
	return &user, nil
}

func (db *Database) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	var roleStr string

	err := db.Pool.QueryRow(ctx,
		"SELECT id, username, role FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Username, &roleStr)

	if err != nil {
		return nil, err
	}

	user.Role = models.Role(roleStr)
	return &user, nil
}

func (db *Database) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int

	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE username = $1",
		username,
	).Scan(&count)

	return count > 0, err
}
