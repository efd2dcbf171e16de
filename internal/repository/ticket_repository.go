package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

// TicketFilter captures listing parameters. Filters combine with AND;
// a nil/empty field leaves that dimension unconstrained.
type TicketFilter struct {
	CreatedBy  *string
	AssignedTo *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence. Creation and deletion
// maintain the user reference sets inside the same transaction, so a
// ticket and its back-references never diverge.
type TicketRepository interface {
	CreateWithRefs(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	DeleteWithRefs(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.priority, t.category, t.subcategory,
               t.status, t.source, t.tags, t.ai_sentiment, t.ai_suggested_category,
               t.created_by, t.assigned_to, t.created_at, t.updated_at,
               c.name, c.email, a.name, a.email
        FROM tickets t
        LEFT JOIN users c ON c.id = t.created_by
        LEFT JOIN users a ON a.id = t.assigned_to`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) CreateWithRefs(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO tickets (title, description, priority, category, subcategory, status, source, tags,
            ai_sentiment, ai_suggested_category, created_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, insert,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Category,
		ticket.Subcategory,
		ticket.Status,
		ticket.Source,
		ticket.Tags,
		ticket.AIAnalysis.Sentiment,
		ticket.AIAnalysis.SuggestedCategory,
		ticket.CreatedBy,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	if ticket.CreatedBy != nil {
		const pushCreated = `
            UPDATE users SET ticket_created = array_append(ticket_created, $1), updated_at=NOW()
            WHERE id=$2`
		if _, err := tx.Exec(ctx, pushCreated, ticket.ID, *ticket.CreatedBy); err != nil {
			return err
		}
	}
	if ticket.AssignedTo != nil {
		const pushAssigned = `
            UPDATE users SET ticket_assigned = array_append(ticket_assigned, $1), updated_at=NOW()
            WHERE id=$2`
		if _, err := tx.Exec(ctx, pushAssigned, ticket.ID, *ticket.AssignedTo); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, category=$4, subcategory=$5,
            status=$6, source=$7, tags=$8, ai_sentiment=$9, ai_suggested_category=$10,
            assigned_to=$11, updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Category,
		ticket.Subcategory,
		ticket.Status,
		ticket.Source,
		ticket.Tags,
		ticket.AIAnalysis.Sentiment,
		ticket.AIAnalysis.SuggestedCategory,
		ticket.AssignedTo,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, ticketSelect+` WHERE t.id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &tickets[0], nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("t.created_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s)", placeholder, placeholder))
	}

	query := ticketSelect + ` WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY t.created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// DeleteWithRefs removes the ticket and pulls its id out of every user's
// created/assigned reference sets in the same transaction.
func (r *ticketRepository) DeleteWithRefs(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const pullRefs = `
        UPDATE users SET ticket_created = array_remove(ticket_created, $1),
            ticket_assigned = array_remove(ticket_assigned, $1), updated_at=NOW()
        WHERE $1 = ANY(ticket_created) OR $1 = ANY(ticket_assigned)`
	if _, err := tx.Exec(ctx, pullRefs, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		var creatorName, creatorEmail, assigneeName, assigneeEmail *string
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Priority,
			&ticket.Category,
			&ticket.Subcategory,
			&ticket.Status,
			&ticket.Source,
			&ticket.Tags,
			&ticket.AIAnalysis.Sentiment,
			&ticket.AIAnalysis.SuggestedCategory,
			&ticket.CreatedBy,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&creatorName,
			&creatorEmail,
			&assigneeName,
			&assigneeEmail,
		); err != nil {
			return nil, err
		}
		if ticket.CreatedBy != nil && creatorName != nil && creatorEmail != nil {
			ticket.Creator = &domain.UserRef{ID: *ticket.CreatedBy, Name: *creatorName, Email: *creatorEmail}
		}
		if ticket.AssignedTo != nil && assigneeName != nil && assigneeEmail != nil {
			ticket.Assignee = &domain.UserRef{ID: *ticket.AssignedTo, Name: *assigneeName, Email: *assigneeEmail}
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
