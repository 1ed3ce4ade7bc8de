package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/padelpoint/padel-system/models"
)

var (
	ErrRatingHistoryUserInvalid  = errors.New("rating history user conflict or invalid")
	ErrRatingHistoryScoreInvalid = errors.New("rating history game score conflict or invalid")
	// ErrRatingAlreadyApplied — дельта за эту финализацию уже записана.
	// Страховка ровно-однократного применения на уровне БД.
	ErrRatingAlreadyApplied = errors.New("rating delta already applied for this game score")
)

type RatingHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.RatingHistory) error
	ListByUser(ctx context.Context, userID, limit int) ([]*models.RatingHistory, error)
}

type postgresRatingHistoryRepository struct {
	db *sql.DB
}

func NewPostgresRatingHistoryRepository(db *sql.DB) RatingHistoryRepository {
	return &postgresRatingHistoryRepository{db: db}
}

func (r *postgresRatingHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRatingHistoryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.RatingHistory) error {
	query := `
		INSERT INTO rating_history
			(user_id, game_score_id, rating_before, rating_after, delta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		entry.UserID,
		entry.GameScoreID,
		entry.RatingBefore,
		entry.RatingAfter,
		entry.Delta,
	).Scan(&entry.ID, &entry.CreatedAt)

	return r.handleRatingHistoryError(err)
}

func (r *postgresRatingHistoryRepository) ListByUser(ctx context.Context, userID, limit int) ([]*models.RatingHistory, error) {
	query := `
		SELECT id, user_id, game_score_id, rating_before, rating_after, delta, created_at
		FROM rating_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.RatingHistory, 0)
	for rows.Next() {
		entry := &models.RatingHistory{}
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.GameScoreID,
			&entry.RatingBefore,
			&entry.RatingAfter,
			&entry.Delta,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *postgresRatingHistoryRepository) handleRatingHistoryError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "rating_history_user_id_game_score_id_key" {
				return ErrRatingAlreadyApplied
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "rating_history_user_id_fkey":
				return ErrRatingHistoryUserInvalid
			case "rating_history_game_score_id_fkey":
				return ErrRatingHistoryScoreInvalid
			}
		}
	}
	return err
}
