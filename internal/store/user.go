package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/r-yvan/healify/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, specialization, location)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Specialization, u.Location,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrEmailTaken
	}
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, specialization, location, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	))
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, specialization, location, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	))
}

func (s *Store) scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Specialization, &u.Location, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SearchDoctors filters registered doctors by specialization and location.
// Empty filters mean "any"; both filters are conjunctive, case-insensitive
// substring matches. An empty result is not an error.
func (s *Store) SearchDoctors(ctx context.Context, specialization, location string) ([]model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, password_hash, name, role, specialization, location, created_at, updated_at
		 FROM users
		 WHERE role = $1
		   AND ($2 = '' OR specialization ILIKE '%' || $2 || '%')
		   AND ($3 = '' OR location ILIKE '%' || $3 || '%')
		 ORDER BY name`,
		model.RoleDoctor, specialization, location,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
			&u.Specialization, &u.Location, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
