package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/padelpoint/padel-system/models"
)

var (
	ErrConfirmationNotFound     = errors.New("score confirmation not found")
	ErrConfirmationScoreInvalid = errors.New("score confirmation game score conflict or invalid")
	ErrConfirmationUserInvalid  = errors.New("score confirmation user conflict or invalid")
)

type ScoreConfirmationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, confirmation *models.ScoreConfirmation) error
	ListByGameScore(ctx context.Context, gameScoreID int) ([]*models.ScoreConfirmation, error)
	// ListByGame собирает реакции по всем записям игры для аудит-истории.
	ListByGame(ctx context.Context, gameID int) ([]*models.ScoreConfirmation, error)
}

type postgresScoreConfirmationRepository struct {
	db *sql.DB
}

func NewPostgresScoreConfirmationRepository(db *sql.DB) ScoreConfirmationRepository {
	return &postgresScoreConfirmationRepository{db: db}
}

func (r *postgresScoreConfirmationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScoreConfirmationRepository) Create(ctx context.Context, exec SQLExecutor, confirmation *models.ScoreConfirmation) error {
	query := `
		INSERT INTO score_confirmations
			(game_score_id, confirming_team, confirming_user, action,
			 counter_team1_score, counter_team2_score, counter_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		confirmation.GameScoreID,
		confirmation.ConfirmingTeam,
		confirmation.ConfirmingUser,
		confirmation.Action,
		confirmation.CounterTeam1Score,
		confirmation.CounterTeam2Score,
		confirmation.CounterNotes,
	).Scan(&confirmation.ID, &confirmation.CreatedAt)

	return r.handleConfirmationError(err)
}

func (r *postgresScoreConfirmationRepository) ListByGameScore(ctx context.Context, gameScoreID int) ([]*models.ScoreConfirmation, error) {
	query := `
		SELECT id, game_score_id, confirming_team, confirming_user, action,
			counter_team1_score, counter_team2_score, counter_notes, created_at
		FROM score_confirmations
		WHERE game_score_id = $1
		ORDER BY created_at ASC, id ASC`

	return r.queryConfirmations(ctx, query, gameScoreID)
}

func (r *postgresScoreConfirmationRepository) ListByGame(ctx context.Context, gameID int) ([]*models.ScoreConfirmation, error) {
	query := `
		SELECT sc.id, sc.game_score_id, sc.confirming_team, sc.confirming_user, sc.action,
			sc.counter_team1_score, sc.counter_team2_score, sc.counter_notes, sc.created_at
		FROM score_confirmations sc
		JOIN game_scores gs ON gs.id = sc.game_score_id
		WHERE gs.game_id = $1
		ORDER BY sc.created_at ASC, sc.id ASC`

	return r.queryConfirmations(ctx, query, gameID)
}

func (r *postgresScoreConfirmationRepository) queryConfirmations(ctx context.Context, query string, arg interface{}) ([]*models.ScoreConfirmation, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confirmations := make([]*models.ScoreConfirmation, 0)
	for rows.Next() {
		confirmation := &models.ScoreConfirmation{}
		if scanErr := rows.Scan(
			&confirmation.ID,
			&confirmation.GameScoreID,
			&confirmation.ConfirmingTeam,
			&confirmation.ConfirmingUser,
			&confirmation.Action,
			&confirmation.CounterTeam1Score,
			&confirmation.CounterTeam2Score,
			&confirmation.CounterNotes,
			&confirmation.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		confirmations = append(confirmations, confirmation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return confirmations, nil
}

func (r *postgresScoreConfirmationRepository) handleConfirmationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "score_confirmations_game_score_id_fkey":
				return ErrConfirmationScoreInvalid
			case "score_confirmations_confirming_user_fkey":
				return ErrConfirmationUserInvalid
			}
		}
	}
	return err
}
