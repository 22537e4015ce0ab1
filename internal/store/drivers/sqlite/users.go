package sqlite

import (
	"context"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
)

type usersRepo struct {
	q dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, organization_id, role,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.OrganizationID, u.Role,
		now, now,
	)
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, email)
}

func (r *usersRepo) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, organization_id, role,
		       created_at, updated_at
		FROM users `+where,
		arg,
	)

	var (
		u                    domain.User
		createdAt, updatedAt string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.OrganizationID,
		&u.Role, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return u, nil
}
