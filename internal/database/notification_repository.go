package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
)

const notificationColumns = `
	n.id, n.type, n.recipient_id, n.sender_id, u.username AS sender_username,
	n.thread_id, n.reply_id, n.is_read, n.created_at`

// SaveNotification persists a notification row.
func (p *PostgresDB) SaveNotification(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO notifications (id, type, recipient_id, sender_id, thread_id, reply_id, is_read, created_at)
		VALUES (:id, :type, :recipient_id, :sender_id, :thread_id, :reply_id, :is_read, :created_at)
	`
	if _, err := p.DB.NamedExecContext(ctx, query, n); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save notification", err)
	}
	return nil
}

// FindRecentNotification looks for an existing notification with the same
// recipient, sender, type and subject created at or after the given time.
// Used to collapse rapid repeats into one row.
func (p *PostgresDB) FindRecentNotification(ctx context.Context, n *models.Notification, since time.Time) (*models.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications n
		JOIN users u ON n.sender_id = u.id
		WHERE n.recipient_id = $1
			AND n.sender_id = $2
			AND n.type = $3
			AND n.thread_id IS NOT DISTINCT FROM $4
			AND n.reply_id IS NOT DISTINCT FROM $5
			AND n.created_at >= $6
		ORDER BY n.created_at DESC
		LIMIT 1
	`, notificationColumns)

	var existing models.Notification
	err := p.DB.GetContext(ctx, &existing, query, n.RecipientID, n.SenderID, n.Type, n.ThreadID, n.ReplyID, since)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "no recent notification", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query recent notification", err)
	}
	return &existing, nil
}

// GetNotifications retrieves one page of the recipient's notifications,
// newest first.
func (p *PostgresDB) GetNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications n
		JOIN users u ON n.sender_id = u.id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2 OFFSET $3
	`, notificationColumns)

	notifications := []*models.Notification{}
	if err := p.DB.SelectContext(ctx, &notifications, query, recipientID, limit, offset); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query notifications", err)
	}
	return notifications, nil
}

func (p *PostgresDB) CountNotifications(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	if err := p.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`, recipientID); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count notifications", err)
	}
	return count, nil
}

func (p *PostgresDB) CountUnreadNotifications(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := p.DB.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count unread notifications", err)
	}
	return count, nil
}

// MarkNotificationRead flips one notification. The recipient scoping keeps
// users from touching each other's rows.
func (p *PostgresDB) MarkNotificationRead(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to mark notification read", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
	}
	return nil
}

// MarkAllNotificationsRead flips every unread notification and returns how
// many changed.
func (p *PostgresDB) MarkAllNotificationsRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	result, err := p.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to mark notifications read", err)
	}
	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

func (p *PostgresDB) DeleteNotification(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete notification", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
	}
	return nil
}

func (p *PostgresDB) DeleteAllNotifications(ctx context.Context, recipientID uuid.UUID) (int, error) {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM notifications WHERE recipient_id = $1`, recipientID)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to delete notifications", err)
	}
	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}
