package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelpoint/padel-system/models"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGamePlayerNotFound = errors.New("user is not a player of this game")
)

// GameRepository — read-only доступ к внешним таблицам games/game_players.
// Движок согласования этими таблицами не владеет.
type GameRepository interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListPlayers(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.GamePlayer, error)
	// GetPlayerTeam возвращает номер стороны (1 или 2), за которую userID
	// заявлен в игре, либо ErrGamePlayerNotFound.
	GetPlayerTeam(ctx context.Context, gameID, userID int) (int, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, club_id, court_id, played_at, created_at
		FROM games
		WHERE id = $1`

	game := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.ID,
		&game.ClubID,
		&game.CourtID,
		&game.PlayedAt,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *postgresGameRepository) ListPlayers(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.GamePlayer, error) {
	query := `
		SELECT game_id, user_id, team
		FROM game_players
		WHERE game_id = $1
		ORDER BY team ASC, user_id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.GamePlayer, 0)
	for rows.Next() {
		player := &models.GamePlayer{}
		if scanErr := rows.Scan(&player.GameID, &player.UserID, &player.Team); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *postgresGameRepository) GetPlayerTeam(ctx context.Context, gameID, userID int) (int, error) {
	query := `SELECT team FROM game_players WHERE game_id = $1 AND user_id = $2`

	var team int
	err := r.db.QueryRowContext(ctx, query, gameID, userID).Scan(&team)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrGamePlayerNotFound
		}
		return 0, err
	}
	return team, nil
}
