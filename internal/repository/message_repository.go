package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// MessageRepository stores direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error)
	ListByParticipant(ctx context.Context, userID string) ([]domain.Message, error)
	// MarkRead marks every message from sender to receiver as read.
	MarkRead(ctx context.Context, receiverID, senderID string) error
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository constructs repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	const query = `
        INSERT INTO messages (sender_id, receiver_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, read, created_at`
	err := r.pool.QueryRow(ctx, query, m.SenderID, m.ReceiverID, m.Body).Scan(&m.ID, &m.Read, &m.CreatedAt)
	return mapPgError(err)
}

func (r *messageRepository) ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, body, read, created_at
        FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *messageRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `
        SELECT id, sender_id, receiver_id, body, read, created_at
        FROM messages WHERE sender_id=$1 OR receiver_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *messageRepository) MarkRead(ctx context.Context, receiverID, senderID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET read=TRUE WHERE receiver_id=$1 AND sender_id=$2 AND read=FALSE`,
		receiverID, senderID)
	return mapPgError(err)
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var result []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
