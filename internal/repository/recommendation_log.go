package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
)

// Record appends one served recommendation
func (r *Repository) Record(ctx context.Context, entry domain.RecommendationLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recommendation_log (user_id, endpoint_name, item_ids, created_at)
		 VALUES ($1, $2, $3, $4)`,
		entry.UserID, entry.EndpointName, entry.ItemIDs, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recommendation log for user %d: %w", entry.UserID, err)
	}
	return nil
}

// Get the most recent recommendations served to a user
func (r *Repository) RecentForUser(ctx context.Context, userID int64, limit int) ([]domain.RecommendationLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, endpoint_name, item_ids, created_at
		 FROM recommendation_log
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recommendation log for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []domain.RecommendationLog
	for rows.Next() {
		var e domain.RecommendationLog
		if err := rows.Scan(&e.UserID, &e.EndpointName, &e.ItemIDs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendation log: %w", err)
	}
	return entries, nil
}
