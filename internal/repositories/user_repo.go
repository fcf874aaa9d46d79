package repositories

import (
	"context"
	"fmt"

	"bookingportal/internal/common"
	"bookingportal/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	UpdateSm8UUID(ctx context.Context, id uuid.UUID, sm8UUID string) error
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, password_hash, sm8_uuid, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Sm8UUID, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// A concurrent signup can pass ExistsByEmailOrPhone and still lose the race here.
		if isUniqueViolation(err) {
			return common.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, COALESCE(phone, ''), password_hash, sm8_uuid, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetByIdentifier looks a user up by email (case-insensitive) or phone.
func (r *userRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := `
		SELECT id, name, email, COALESCE(phone, ''), password_hash, sm8_uuid, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1) OR phone = $1
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanOne(ctx, query, identifier)
}

func (r *userRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) OR ($2 <> '' AND phone = $2))`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	return exists, nil
}

func (r *userRepo) UpdateSm8UUID(ctx context.Context, id uuid.UUID, sm8UUID string) error {
	query := `UPDATE users SET sm8_uuid = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, sm8UUID, id)
	if err != nil {
		return fmt.Errorf("failed to link servicem8 account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Sm8UUID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}
