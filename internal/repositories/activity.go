package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

const activityColumns = `id, sequence, user_id, action, movie_id, rating, success, error, created_at`

// ActivityFilter narrows [ActivityRepository.List]. Zero values match everything.
type ActivityFilter struct {
	UserID      models.UserID
	MovieID     int
	Action      models.Action
	FailedOnly  bool
	Limit       int
	NewestFirst bool
}

// ActivityRepository persists [models.Activity] rows.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the given database connection
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record inserts activity with a generated ID and sequence.
func (r *ActivityRepository) Record(ctx context.Context, activity *models.Activity) error {
	if err := activity.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "activities")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	activity.SetID(id)
	activity.SetSequence(sequence)

	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		int(activity.UserID()),
		string(activity.Action()),
		activity.MovieID(),
		activity.Rating(),
		activity.Success(),
		activity.Error(),
		activity.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, id string) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`

	activity, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity not found: %s", id)
	}
	return activity, err
}

// List retrieves activities matching f, ordered by sequence.
func (r *ActivityRepository) List(ctx context.Context, f ActivityFilter) ([]*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE 1 = 1`
	args := []any{}

	if f.UserID > 0 {
		query += " AND user_id = ?"
		args = append(args, int(f.UserID))
	}
	if f.MovieID > 0 {
		query += " AND movie_id = ?"
		args = append(args, f.MovieID)
	}
	if f.Action != "" {
		query += " AND action = ?"
		args = append(args, string(f.Action))
	}
	if f.FailedOnly {
		query += " AND success = 0"
	}

	if f.NewestFirst {
		query += " ORDER BY sequence DESC"
	} else {
		query += " ORDER BY sequence ASC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return activities, nil
}

// Recent returns the newest limit activities for userID.
func (r *ActivityRepository) Recent(ctx context.Context, userID models.UserID, limit int) ([]*models.Activity, error) {
	return r.List(ctx, ActivityFilter{UserID: userID, Limit: limit, NewestFirst: true})
}

// Prune deletes activities created before cutoff and returns how many were removed.
func (r *ActivityRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune activities: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (*models.Activity, error) {
	var (
		id        string
		sequence  int
		userID    int
		action    string
		movieID   int
		rating    int
		success   bool
		errMsg    string
		createdAt time.Time
	)

	if err := s.Scan(&id, &sequence, &userID, &action, &movieID, &rating, &success, &errMsg, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}

	return models.RestoreActivity(id, sequence, models.UserID(userID), models.Action(action), movieID, rating, success, errMsg, createdAt), nil
}
