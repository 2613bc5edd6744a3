package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

// Repository implements RepositoryInterface backed by Postgres
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new messaging repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const conversationColumns = "id, listing_id, buyer_id, seller_id, last_message_at, created_at, updated_at"

func scanConversation(row pgx.Row) (*Conversation, error) {
	c := &Conversation{}
	err := row.Scan(
		&c.ID,
		&c.ListingID,
		&c.BuyerID,
		&c.SellerID,
		&c.LastMessageAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateConversation inserts a conversation
func (r *Repository) CreateConversation(ctx context.Context, conversation *Conversation) error {
	query := `
		INSERT INTO conversations (id, listing_id, buyer_id, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		conversation.ID,
		conversation.ListingID,
		conversation.BuyerID,
		conversation.SellerID,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetConversationByID fetches one conversation
func (r *Repository) GetConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE id = $1`, conversationColumns)

	conversation, err := scanConversation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("conversation not found", err)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

// GetConversationByListingAndBuyer fetches the unique conversation for a
// listing/buyer pair
func (r *Repository) GetConversationByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE listing_id = $1 AND buyer_id = $2`, conversationColumns)

	conversation, err := scanConversation(r.db.QueryRow(ctx, query, listingID, buyerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("conversation not found", err)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

// ListConversationsForUser returns conversations the user participates in,
// most recently active first
func (r *Repository) ListConversationsForUser(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]*Conversation, int64, error) {
	countQuery := `SELECT COUNT(*) FROM conversations WHERE buyer_id = $1 OR seller_id = $1`

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM messages m
			 WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND m.status <> 'read') AS unread_count
		FROM conversations c
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC
		LIMIT $2 OFFSET $3`, conversationColumns)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*Conversation, 0)
	for rows.Next() {
		c := &Conversation{}
		if err := rows.Scan(
			&c.ID,
			&c.ListingID,
			&c.BuyerID,
			&c.SellerID,
			&c.LastMessageAt,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.UnreadCount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return conversations, total, nil
}

// CreateMessage inserts a message and bumps the conversation activity
// timestamp in one transaction
func (r *Repository) CreateMessage(ctx context.Context, message *Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertQuery := `
		INSERT INTO messages (id, conversation_id, sender_id, content, fraud_score, fraud_risk_level, fraud_flags, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, insertQuery,
		message.ID,
		message.ConversationID,
		message.SenderID,
		message.Content,
		message.FraudScore,
		message.FraudRiskLevel,
		message.FraudFlags,
		message.Status,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	touchQuery := `UPDATE conversations SET last_message_at = $2, updated_at = $2 WHERE id = $1`
	if _, err := tx.Exec(ctx, touchQuery, message.ConversationID, message.CreatedAt); err != nil {
		return fmt.Errorf("failed to update conversation activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

// ListMessages returns messages in a conversation, newest first
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int64) ([]*Message, int64, error) {
	countQuery := `SELECT COUNT(*) FROM messages WHERE conversation_id = $1`

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, conversationID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
		SELECT id, conversation_id, sender_id, content, fraud_score, fraud_risk_level, fraud_flags, status, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*Message, 0)
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(
			&m.ID,
			&m.ConversationID,
			&m.SenderID,
			&m.Content,
			&m.FraudScore,
			&m.FraudRiskLevel,
			&m.FraudFlags,
			&m.Status,
			&m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, total, nil
}

// MarkMessagesRead marks every unread message from the other participant as
// read and returns how many rows changed
func (r *Repository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET status = 'read'
		WHERE conversation_id = $1 AND sender_id <> $2 AND status <> 'read'`

	tag, err := r.db.Exec(ctx, query, conversationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}
