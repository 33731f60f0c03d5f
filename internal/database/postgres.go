// internal/database/postgres.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"ripple-social/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DBAdapter defines the common interface for database operations.
type DBAdapter interface {
	// Connection
	Close(ctx context.Context) error

	// User methods
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	// Thread methods
	SaveThread(ctx context.Context, thread *models.Thread) error
	GetThread(ctx context.Context, id uuid.UUID) (*models.Thread, error)
	GetThreadsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Thread, error)
	DeleteThread(ctx context.Context, id uuid.UUID) error
	AdjustThreadCounters(ctx context.Context, id uuid.UUID, repliesDelta, repostsDelta int) error
	FindRepostByAuthorAndSource(ctx context.Context, authorID, sourceThreadID uuid.UUID) (*models.Thread, error)
	FindRepostByAuthorAndReply(ctx context.Context, authorID, replyID uuid.UUID) (*models.Thread, error)

	// Thread like methods
	LikeThread(ctx context.Context, userID, threadID uuid.UUID) error
	UnlikeThread(ctx context.Context, userID, threadID uuid.UUID) error
	GetLikedThreadSet(ctx context.Context, userID uuid.UUID, threadIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	GetViewerRepostSources(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)

	// Feed methods. viewerID may be uuid.Nil for anonymous viewers; privacy
	// filtering happens inside the query, before LIMIT/OFFSET.
	GetExploreThreads(ctx context.Context, limit, offset int, viewerID uuid.UUID) ([]*models.Thread, error)
	CountExploreThreads(ctx context.Context, viewerID uuid.UUID) (int, error)
	GetFollowedThreads(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.Thread, error)
	CountFollowedThreads(ctx context.Context, viewerID uuid.UUID) (int, error)
	GetAuthorThreads(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*models.Thread, error)
	CountAuthorThreads(ctx context.Context, authorID uuid.UUID) (int, error)
	SearchThreads(ctx context.Context, query string, limit, offset int, viewerID uuid.UUID) ([]*models.Thread, error)
	CountSearchThreads(ctx context.Context, query string, viewerID uuid.UUID) (int, error)

	// Reply methods
	SaveReply(ctx context.Context, reply *models.Reply) error
	GetReply(ctx context.Context, id uuid.UUID) (*models.Reply, error)
	GetThreadReplies(ctx context.Context, threadID uuid.UUID) ([]*models.Reply, error)
	DeleteReplySubtree(ctx context.Context, replyID uuid.UUID) error
	LikeReply(ctx context.Context, userID, replyID uuid.UUID) error
	UnlikeReply(ctx context.Context, userID, replyID uuid.UUID) error

	// Follow methods
	GetFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	SaveFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error
	GetFollowStatuses(ctx context.Context, followerID uuid.UUID, followingIDs []uuid.UUID) (map[uuid.UUID]models.FollowStatus, error)

	// Notification methods
	SaveNotification(ctx context.Context, n *models.Notification) error
	FindRecentNotification(ctx context.Context, n *models.Notification, since time.Time) (*models.Notification, error)
	GetNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	CountNotifications(ctx context.Context, recipientID uuid.UUID) (int, error)
	CountUnreadNotifications(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkNotificationRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, recipientID uuid.UUID) (int, error)
	DeleteNotification(ctx context.Context, id, recipientID uuid.UUID) error
	DeleteAllNotifications(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL!")

	return &PostgresDB{
		DB: db,
	}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close(ctx context.Context) error {
	log.Println("Closing PostgreSQL connection...")
	return p.DB.Close()
}

// InitializeTables creates all necessary tables if they don't exist
func (p *PostgresDB) InitializeTables(ctx context.Context) error {
	// Users table
	_, err := p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			display_name VARCHAR(100) NOT NULL DEFAULT '',
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			avatar_url VARCHAR(255) NOT NULL DEFAULT '',
			is_private BOOLEAN NOT NULL DEFAULT FALSE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Threads table. The partial unique indexes enforce one repost per
	// (author, source) pair at the storage layer, not in application code.
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS threads (
			id UUID PRIMARY KEY,
			author_id UUID REFERENCES users(id),
			content VARCHAR(500) NOT NULL DEFAULT '',
			media_url VARCHAR(255),
			media_kind VARCHAR(10),
			likes_count INTEGER NOT NULL DEFAULT 0,
			replies_count INTEGER NOT NULL DEFAULT 0,
			reposts_count INTEGER NOT NULL DEFAULT 0,
			repost_of_thread_id UUID REFERENCES threads(id) ON DELETE SET NULL,
			repost_of_reply_id UUID,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create threads table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS threads_author_repost_thread_idx
			ON threads (author_id, repost_of_thread_id)
			WHERE repost_of_thread_id IS NOT NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to create repost uniqueness index: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS threads_author_repost_reply_idx
			ON threads (author_id, repost_of_reply_id)
			WHERE repost_of_reply_id IS NOT NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to create reply repost uniqueness index: %v", err)
	}

	// Replies table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS replies (
			id UUID PRIMARY KEY,
			thread_id UUID REFERENCES threads(id) ON DELETE CASCADE,
			author_id UUID REFERENCES users(id),
			parent_id UUID REFERENCES replies(id),
			content VARCHAR(500) NOT NULL,
			likes_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create replies table: %v", err)
	}

	// Thread likes table. The primary key is the at-most-one-like guarantee.
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS thread_likes (
			user_id UUID REFERENCES users(id),
			thread_id UUID REFERENCES threads(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (user_id, thread_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create thread_likes table: %v", err)
	}

	// Reply likes table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reply_likes (
			user_id UUID REFERENCES users(id),
			reply_id UUID REFERENCES replies(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (user_id, reply_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reply_likes table: %v", err)
	}

	// Follows table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS follows (
			follower_id UUID REFERENCES users(id),
			following_id UUID REFERENCES users(id),
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (follower_id, following_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create follows table: %v", err)
	}

	// Notifications table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			type VARCHAR(30) NOT NULL,
			recipient_id UUID REFERENCES users(id),
			sender_id UUID REFERENCES users(id),
			thread_id UUID,
			reply_id UUID,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS notifications_recipient_created_idx
			ON notifications (recipient_id, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notifications index: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS replies_thread_parent_idx
			ON replies (thread_id, parent_id)
	`)
	if err != nil {
		return fmt.Errorf("failed to create replies index: %v", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code.Name() == "unique_violation"
	}
	return false
}

// privacyPredicate is the visibility filter embedded in every feed/search
// query so excluded rows never reach pagination. The viewer placeholder is
// interpolated by position; uuid.Nil never matches an author or a follow row,
// which collapses the predicate to "public only" for anonymous viewers.
func privacyPredicate(viewerArg string) string {
	return fmt.Sprintf(`(
		u.is_private = FALSE
		OR t.author_id = %s
		OR EXISTS (
			SELECT 1 FROM follows f
			WHERE f.follower_id = %s AND f.following_id = t.author_id AND f.status = 'accepted'
		)
	)`, viewerArg, viewerArg)
}
