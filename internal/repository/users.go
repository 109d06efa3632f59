package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"mendizabala/dual/internal/model"
)

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
    SELECT id::text, email, password_hash, name, created_at, updated_at
    FROM users
    WHERE email = $1
  `, email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	return user, translate(err)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
    SELECT id::text, email, password_hash, name, created_at, updated_at
    FROM users
    WHERE id = $1
  `, userID)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	return user, translate(err)
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
  `, user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt)
	return translate(err)
}

// AssignRoles links every known role name to the user and returns the names
// that exist in the reference set. Unknown names are skipped and repeated
// assignments are no-ops.
func (s *Store) AssignRoles(ctx context.Context, userID string, roleNames []string) ([]string, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	assigned := make([]string, 0, len(roleNames))
	seen := make(map[string]bool, len(roleNames))
	for _, name := range roleNames {
		if seen[name] {
			continue
		}
		seen[name] = true

		var roleID int32
		err := tx.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&roleID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
      ON CONFLICT DO NOTHING
    `, userID, roleID); err != nil {
			return nil, translate(err)
		}
		assigned = append(assigned, name)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return assigned, nil
}

func (s *Store) UserRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
    SELECT r.name
    FROM user_roles ur
    JOIN roles r ON ur.role_id = r.id
    WHERE ur.user_id = $1
    ORDER BY r.name
  `, userID)
	if err != nil {
		return nil, translate(err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return roles, nil
}
