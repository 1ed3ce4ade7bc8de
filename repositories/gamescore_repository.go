package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/padelpoint/padel-system/models"
)

var (
	ErrGameScoreNotFound       = errors.New("game score not found")
	ErrGameScoreGameInvalid    = errors.New("game score game conflict or invalid")
	ErrGameScoreUserInvalid    = errors.New("game score user conflict or invalid")
	ErrGameScoreActiveConflict = errors.New("active game score already exists for this game")
	// ErrGameScoreStateConflict — ожидаемый статус строки изменился между
	// чтением и записью (проигранная гонка).
	ErrGameScoreStateConflict = errors.New("game score status changed concurrently")
)

const gameScoreColumns = `id, game_id, team1_score, team2_score, submitted_by_team, submitted_by_user,
		status, final_team1_score, final_team2_score, admin_resolved, admin_notes, confirmed_at, created_at`

type GameScoreRepository interface {
	Create(ctx context.Context, exec SQLExecutor, score *models.GameScore) error
	GetByID(ctx context.Context, id int) (*models.GameScore, error)
	// GetByIDForUpdate блокирует строку (SELECT ... FOR UPDATE) до конца
	// транзакции: конкурирующие реакции на одну запись сериализуются.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.GameScore, error)
	// GetLatestByGame возвращает последнюю запись игры или (nil, nil),
	// если игра ещё без результатов.
	GetLatestByGame(ctx context.Context, exec SQLExecutor, gameID int) (*models.GameScore, error)
	ListByGame(ctx context.Context, gameID int) ([]*models.GameScore, error)
	// MarkDisputed переводит pending → disputed. Guard по статусу в WHERE:
	// ноль изменённых строк означает проигранную гонку.
	MarkDisputed(ctx context.Context, exec SQLExecutor, id int) error
	// Finalize переводит активную запись в терминальный статус и
	// записывает финальный счёт. Guard по активному статусу в WHERE.
	Finalize(ctx context.Context, exec SQLExecutor, id int, finalTeam1, finalTeam2 int, status models.GameScoreStatus, adminResolved bool, adminNotes *string, confirmedAt time.Time) error
}

type postgresGameScoreRepository struct {
	db *sql.DB
}

func NewPostgresGameScoreRepository(db *sql.DB) GameScoreRepository {
	return &postgresGameScoreRepository{db: db}
}

func (r *postgresGameScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameScoreRepository) Create(ctx context.Context, exec SQLExecutor, score *models.GameScore) error {
	query := `
		INSERT INTO game_scores
			(game_id, team1_score, team2_score, submitted_by_team, submitted_by_user, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		score.GameID,
		score.Team1Score,
		score.Team2Score,
		score.SubmittedByTeam,
		score.SubmittedByUser,
		score.Status,
	).Scan(&score.ID, &score.CreatedAt)

	return r.handleGameScoreError(err)
}

func scanGameScore(row *sql.Row) (*models.GameScore, error) {
	score := &models.GameScore{}
	err := row.Scan(
		&score.ID,
		&score.GameID,
		&score.Team1Score,
		&score.Team2Score,
		&score.SubmittedByTeam,
		&score.SubmittedByUser,
		&score.Status,
		&score.FinalTeam1Score,
		&score.FinalTeam2Score,
		&score.AdminResolved,
		&score.AdminNotes,
		&score.ConfirmedAt,
		&score.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (r *postgresGameScoreRepository) GetByID(ctx context.Context, id int) (*models.GameScore, error) {
	query := `SELECT ` + gameScoreColumns + ` FROM game_scores WHERE id = $1`

	score, err := scanGameScore(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameScoreNotFound
		}
		return nil, err
	}
	return score, nil
}

func (r *postgresGameScoreRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.GameScore, error) {
	query := `SELECT ` + gameScoreColumns + ` FROM game_scores WHERE id = $1 FOR UPDATE`

	score, err := scanGameScore(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameScoreNotFound
		}
		return nil, err
	}
	return score, nil
}

func (r *postgresGameScoreRepository) GetLatestByGame(ctx context.Context, exec SQLExecutor, gameID int) (*models.GameScore, error) {
	query := `SELECT ` + gameScoreColumns + `
		FROM game_scores
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	score, err := scanGameScore(r.getExecutor(exec).QueryRowContext(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return score, nil
}

func (r *postgresGameScoreRepository) ListByGame(ctx context.Context, gameID int) ([]*models.GameScore, error) {
	query := `SELECT ` + gameScoreColumns + `
		FROM game_scores
		WHERE game_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]*models.GameScore, 0)
	for rows.Next() {
		score := &models.GameScore{}
		if scanErr := rows.Scan(
			&score.ID,
			&score.GameID,
			&score.Team1Score,
			&score.Team2Score,
			&score.SubmittedByTeam,
			&score.SubmittedByUser,
			&score.Status,
			&score.FinalTeam1Score,
			&score.FinalTeam2Score,
			&score.AdminResolved,
			&score.AdminNotes,
			&score.ConfirmedAt,
			&score.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		scores = append(scores, score)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *postgresGameScoreRepository) MarkDisputed(ctx context.Context, exec SQLExecutor, id int) error {
	query := `
		UPDATE game_scores
		SET status = $1
		WHERE id = $2 AND status = $3`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		models.ScoreStatusDisputed, id, models.ScoreStatusPending)
	if err != nil {
		return r.handleGameScoreError(err)
	}

	return checkAffectedRows(result, ErrGameScoreStateConflict)
}

func (r *postgresGameScoreRepository) Finalize(ctx context.Context, exec SQLExecutor, id int, finalTeam1, finalTeam2 int, status models.GameScoreStatus, adminResolved bool, adminNotes *string, confirmedAt time.Time) error {
	query := `
		UPDATE game_scores
		SET final_team1_score = $1,
			final_team2_score = $2,
			status = $3,
			admin_resolved = $4,
			admin_notes = $5,
			confirmed_at = $6
		WHERE id = $7 AND status IN ($8, $9)`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		finalTeam1,
		finalTeam2,
		status,
		adminResolved,
		adminNotes,
		confirmedAt,
		id,
		models.ScoreStatusPending,
		models.ScoreStatusDisputed,
	)
	if err != nil {
		return r.handleGameScoreError(err)
	}

	return checkAffectedRows(result, ErrGameScoreStateConflict)
}

func (r *postgresGameScoreRepository) handleGameScoreError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			// Частичный уникальный индекс: не больше одной активной записи на игру.
			if pqErr.Constraint == "game_scores_one_active_per_game_idx" {
				return ErrGameScoreActiveConflict
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "game_scores_game_id_fkey":
				return ErrGameScoreGameInvalid
			case "game_scores_submitted_by_user_fkey":
				return ErrGameScoreUserInvalid
			}
		}
	}
	return err
}
