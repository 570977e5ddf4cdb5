package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the credential store backed by the users table.
type UserDB struct {
	conn *sql.DB
}

const userColumns = `email, name, password_hash, age, weight, height, gender, goal, created_at, updated_at`

// Create inserts a new profile.
//
// ON CONFLICT DO NOTHING turns the duplicate check and the insert into one
// statement: zero affected rows means the email was already taken.
func (u *UserDB) Create(ctx context.Context, user *model.UserProfile) error {
	now := time.Now()

	result, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Age,
		user.Weight,
		user.Height,
		user.Gender,
		user.Goal,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.DuplicateIdentity("user", user.Email)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a profile by its email.
// Returns apperror.ErrNotFound if no user exists with that email.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	row := u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`,
		email,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", email, err)
	}
	return user, nil
}

// Update overwrites the mutable profile fields. password_hash is not in the
// SET list, so the credential cannot change here.
func (u *UserDB) Update(ctx context.Context, user *model.UserProfile) error {
	user.UpdatedAt = time.Now()

	result, err := u.conn.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, age = ?, weight = ?, height = ?, gender = ?, goal = ?, updated_at = ?
		 WHERE email = ?`,
		user.Name,
		user.Age,
		user.Weight,
		user.Height,
		user.Gender,
		user.Goal,
		user.UpdatedAt,
		user.Email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.Email, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.Email)
	}

	return nil
}

// Delete removes a profile. Deleting an email with no profile is a no-op
// rather than NotFound.
func (u *UserDB) Delete(ctx context.Context, email string) error {
	if _, err := u.conn.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email); err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", email, err)
	}
	return nil
}

// List returns all profiles ordered by email.
func (u *UserDB) List(ctx context.Context) ([]model.UserProfile, error) {
	rows, err := u.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.UserProfile{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*model.UserProfile, error) {
	var user model.UserProfile
	err := s.Scan(
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Age,
		&user.Weight,
		&user.Height,
		&user.Gender,
		&user.Goal,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
