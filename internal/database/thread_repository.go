package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const threadColumns = `
	t.id, t.author_id, u.username AS author_username, t.content, t.media_url, t.media_kind,
	t.likes_count, t.replies_count, t.reposts_count,
	t.repost_of_thread_id, t.repost_of_reply_id, t.created_at, t.updated_at`

// SaveThread inserts a new thread or updates an existing one based on the ID.
// A violated repost uniqueness index surfaces as a conflict so a second
// repost of the same source always fails, even under concurrent attempts.
func (p *PostgresDB) SaveThread(ctx context.Context, thread *models.Thread) error {
	thread.UpdatedAt = time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = thread.UpdatedAt
	}

	query := `
		INSERT INTO threads (id, author_id, content, media_url, media_kind, likes_count, replies_count, reposts_count, repost_of_thread_id, repost_of_reply_id, created_at, updated_at)
		VALUES (:id, :author_id, :content, :media_url, :media_kind, :likes_count, :replies_count, :reposts_count, :repost_of_thread_id, :repost_of_reply_id, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			media_url = EXCLUDED.media_url,
			media_kind = EXCLUDED.media_kind,
			updated_at = EXCLUDED.updated_at
	`
	// Note: author and repost references are immutable after creation

	_, err := p.DB.NamedExecContext(ctx, query, thread)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "already reposted this source", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save thread", err)
	}
	return nil
}

// GetThread fetches a thread by its ID.
func (p *PostgresDB) GetThread(ctx context.Context, id uuid.UUID) (*models.Thread, error) {
	query := fmt.Sprintf(`SELECT %s FROM threads t JOIN users u ON t.author_id = u.id WHERE t.id = $1`, threadColumns)
	var thread models.Thread
	err := p.DB.GetContext(ctx, &thread, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "thread not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query thread by id", err)
	}
	return &thread, nil
}

// GetThreadsByIDs fetches a batch of threads keyed by ID. Used to resolve
// repost sources for a whole page in one query.
func (p *PostgresDB) GetThreadsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Thread, error) {
	result := make(map[uuid.UUID]*models.Thread, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM threads t JOIN users u ON t.author_id = u.id WHERE t.id IN (?)`, threadColumns), ids)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to build threads batch query", err)
	}
	query = p.DB.Rebind(query)

	threads := []*models.Thread{}
	if err := p.DB.SelectContext(ctx, &threads, query, args...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query threads batch", err)
	}

	for _, t := range threads {
		result[t.ID] = t
	}
	return result, nil
}

// DeleteThread removes a thread. Replies and like rows cascade.
func (p *PostgresDB) DeleteThread(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete thread", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "thread not found", nil)
	}
	return nil
}

// AdjustThreadCounters shifts the persisted reply/repost counters.
func (p *PostgresDB) AdjustThreadCounters(ctx context.Context, id uuid.UUID, repliesDelta, repostsDelta int) error {
	query := `
		UPDATE threads
		SET replies_count = GREATEST(replies_count + $1, 0),
			reposts_count = GREATEST(reposts_count + $2, 0),
			updated_at = NOW()
		WHERE id = $3
	`
	result, err := p.DB.ExecContext(ctx, query, repliesDelta, repostsDelta, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update thread counters", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "thread not found when updating counters", nil)
	}
	return nil
}

// FindRepostByAuthorAndSource locates the author's repost of a thread, if any.
func (p *PostgresDB) FindRepostByAuthorAndSource(ctx context.Context, authorID, sourceThreadID uuid.UUID) (*models.Thread, error) {
	query := fmt.Sprintf(`SELECT %s FROM threads t JOIN users u ON t.author_id = u.id WHERE t.author_id = $1 AND t.repost_of_thread_id = $2`, threadColumns)
	var thread models.Thread
	err := p.DB.GetContext(ctx, &thread, query, authorID, sourceThreadID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "repost not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query repost", err)
	}
	return &thread, nil
}

// FindRepostByAuthorAndReply locates the author's repost of a reply, if any.
func (p *PostgresDB) FindRepostByAuthorAndReply(ctx context.Context, authorID, replyID uuid.UUID) (*models.Thread, error) {
	query := fmt.Sprintf(`SELECT %s FROM threads t JOIN users u ON t.author_id = u.id WHERE t.author_id = $1 AND t.repost_of_reply_id = $2`, threadColumns)
	var thread models.Thread
	err := p.DB.GetContext(ctx, &thread, query, authorID, replyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "repost not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query reply repost", err)
	}
	return &thread, nil
}

// LikeThread records the (user, thread) like pair and bumps the counter in
// one transaction. The primary key on thread_likes makes a duplicate like a
// conflict regardless of concurrent attempts.
func (p *PostgresDB) LikeThread(ctx context.Context, userID, threadID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin like transaction", err)
	}
	defer tx.Rollback() // Rollback is ignored if tx is committed.

	_, err = tx.ExecContext(ctx, `INSERT INTO thread_likes (user_id, thread_id, created_at) VALUES ($1, $2, NOW())`, userID, threadID)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "thread already liked", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to insert like", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE threads SET likes_count = likes_count + 1, updated_at = NOW() WHERE id = $1`, threadID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update like counter", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "thread not found", nil)
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit like transaction", err)
	}
	return nil
}

// UnlikeThread removes the like pair and decrements the counter.
func (p *PostgresDB) UnlikeThread(ctx context.Context, userID, threadID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin unlike transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM thread_likes WHERE user_id = $1 AND thread_id = $2`, userID, threadID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete like", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "like not found", nil)
	}

	_, err = tx.ExecContext(ctx, `UPDATE threads SET likes_count = GREATEST(likes_count - 1, 0), updated_at = NOW() WHERE id = $1`, threadID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update like counter", err)
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit unlike transaction", err)
	}
	return nil
}

// GetLikedThreadSet returns which of the given threads the user has liked,
// built once per page instead of per-item existence checks.
func (p *PostgresDB) GetLikedThreadSet(ctx context.Context, userID uuid.UUID, threadIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(threadIDs))
	if userID == uuid.Nil || len(threadIDs) == 0 {
		return liked, nil
	}

	query, args, err := sqlx.In(`SELECT thread_id FROM thread_likes WHERE user_id = ? AND thread_id IN (?)`, userID, threadIDs)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to build liked-set query", err)
	}
	query = p.DB.Rebind(query)

	var ids []uuid.UUID
	if err := p.DB.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query liked set", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// GetViewerRepostSources returns the set of repost-source thread IDs the user
// has already reposted, from their own repost rows.
func (p *PostgresDB) GetViewerRepostSources(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	sources := make(map[uuid.UUID]bool)
	if userID == uuid.Nil {
		return sources, nil
	}

	var ids []uuid.UUID
	query := `SELECT repost_of_thread_id FROM threads WHERE author_id = $1 AND repost_of_thread_id IS NOT NULL`
	if err := p.DB.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query viewer reposts", err)
	}
	for _, id := range ids {
		sources[id] = true
	}
	return sources, nil
}

// --- Feed queries ---

// GetExploreThreads retrieves the most recent threads from every author the
// viewer may see. Privacy filtering happens before LIMIT/OFFSET.
func (p *PostgresDB) GetExploreThreads(ctx context.Context, limit, offset int, viewerID uuid.UUID) ([]*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`, threadColumns, privacyPredicate("$1"))

	threads := []*models.Thread{}
	if err := p.DB.SelectContext(ctx, &threads, query, viewerID, limit, offset); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query explore threads", err)
	}
	return threads, nil
}

// CountExploreThreads counts the filtered explore set so pagination totals
// reflect what the viewer can actually see.
func (p *PostgresDB) CountExploreThreads(ctx context.Context, viewerID uuid.UUID) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE %s
	`, privacyPredicate("$1"))

	var count int
	if err := p.DB.GetContext(ctx, &count, query, viewerID); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count explore threads", err)
	}
	return count, nil
}

// followedPredicate scopes the followed feed: accepted-followed authors, the
// viewer's own threads, and every public author. Deliberately "followed +
// public", not strictly followed-only.
func followedPredicate(viewerArg string) string {
	return fmt.Sprintf(`(
		t.author_id = %s
		OR u.is_private = FALSE
		OR EXISTS (
			SELECT 1 FROM follows f
			WHERE f.follower_id = %s AND f.following_id = t.author_id AND f.status = 'accepted'
		)
	)`, viewerArg, viewerArg)
}

// GetFollowedThreads retrieves the viewer's followed feed page.
func (p *PostgresDB) GetFollowedThreads(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`, threadColumns, followedPredicate("$1"))

	threads := []*models.Thread{}
	if err := p.DB.SelectContext(ctx, &threads, query, viewerID, limit, offset); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query followed threads", err)
	}
	return threads, nil
}

func (p *PostgresDB) CountFollowedThreads(ctx context.Context, viewerID uuid.UUID) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE %s
	`, followedPredicate("$1"))

	var count int
	if err := p.DB.GetContext(ctx, &count, query, viewerID); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count followed threads", err)
	}
	return count, nil
}

// GetAuthorThreads retrieves one author's threads. Author-level visibility is
// decided by the caller before this query runs.
func (p *PostgresDB) GetAuthorThreads(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE t.author_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`, threadColumns)

	threads := []*models.Thread{}
	if err := p.DB.SelectContext(ctx, &threads, query, authorID, limit, offset); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query author threads", err)
	}
	return threads, nil
}

func (p *PostgresDB) CountAuthorThreads(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int
	if err := p.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM threads WHERE author_id = $1`, authorID); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count author threads", err)
	}
	return count, nil
}

// SearchThreads filters by content substring, with the same privacy scoping
// as explore.
func (p *PostgresDB) SearchThreads(ctx context.Context, search string, limit, offset int, viewerID uuid.UUID) ([]*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE t.content ILIKE '%%' || $2 || '%%' AND %s
		ORDER BY t.created_at DESC
		LIMIT $3 OFFSET $4
	`, threadColumns, privacyPredicate("$1"))

	threads := []*models.Thread{}
	if err := p.DB.SelectContext(ctx, &threads, query, viewerID, search, limit, offset); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to search threads", err)
	}
	return threads, nil
}

func (p *PostgresDB) CountSearchThreads(ctx context.Context, search string, viewerID uuid.UUID) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM threads t
		JOIN users u ON t.author_id = u.id
		WHERE t.content ILIKE '%%' || $2 || '%%' AND %s
	`, privacyPredicate("$1"))

	var count int
	if err := p.DB.GetContext(ctx, &count, query, viewerID, search); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count search threads", err)
	}
	return count, nil
}
