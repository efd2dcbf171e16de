package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListExcluding(ctx context.Context, excludeID string) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

const userColumns = `id, employee_id, name, email, password_hash, role, avatar_url,
        contact_phone, contact_location, ticket_created, ticket_assigned, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (employee_id, name, email, password_hash, role, avatar_url, contact_phone, contact_location)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.EmployeeID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AvatarURL,
		user.Contact.Phone,
		user.Contact.Location,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, avatar_url=$5,
            contact_phone=$6, contact_location=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AvatarURL,
		user.Contact.Phone,
		user.Contact.Location,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=LOWER($1)`, email)
}

func (r *userRepository) GetByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=LOWER($1) OR employee_id=$2`
	return r.fetchSingle(ctx, query, email, employeeID)
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListExcluding(ctx context.Context, excludeID string) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id<>$1 ORDER BY created_at`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Delete removes the user and clears its id from every ticket referencing
// it as creator or assignee, all in one transaction.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `UPDATE tickets SET assigned_to=NULL, updated_at=NOW() WHERE assigned_to=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE tickets SET created_by=NULL, updated_at=NOW() WHERE created_by=$1`, id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.EmployeeID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.AvatarURL,
		&user.Contact.Phone,
		&user.Contact.Location,
		&user.TicketCreated,
		&user.TicketAssigned,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.EmployeeID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.AvatarURL,
			&user.Contact.Phone,
			&user.Contact.Location,
			&user.TicketCreated,
			&user.TicketAssigned,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
