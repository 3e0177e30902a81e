package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"arena-chat/internal/domain"
)

// MessageRepository es el gateway al store de mensajes: append-only, con id y
// created_at asignados al insertar.
type MessageRepository interface {
	Insert(ctx context.Context, userID, content string) (domain.Message, error)
	ListRecent(ctx context.Context, limit int) ([]domain.StoredMessage, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Insert persiste un mensaje nuevo. El repositorio asigna el id; el timestamp
// lo asigna la base con now(), así los created_at son no decrecientes sobre
// un mismo reloj y el id desempata entre inserts del mismo instante.
func (r *PgMessageRepository) Insert(ctx context.Context, userID, content string) (domain.Message, error) {
	const query = `
		INSERT INTO chat_messages (id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	msg := domain.Message{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: content,
	}
	if err := r.pool.QueryRow(ctx, query, msg.ID, msg.UserID, msg.Content).Scan(&msg.CreatedAt); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// ListRecent devuelve los últimos limit mensajes, más reciente primero, con la
// wallet del emisor sin enmascarar. El orden total es estable: created_at
// descendente con id como desempate.
func (r *PgMessageRepository) ListRecent(ctx context.Context, limit int) ([]domain.StoredMessage, error) {
	const query = `
		SELECT m.id, m.user_id, m.content, m.created_at, u.wallet_address
		FROM chat_messages m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.StoredMessage
	for rows.Next() {
		var msg domain.StoredMessage
		err = rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Content,
			&msg.CreatedAt,
			&msg.WalletAddress,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
