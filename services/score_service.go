package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/padelpoint/padel-system/live"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/ratings"
	"github.com/padelpoint/padel-system/repositories"
	"golang.org/x/sync/errgroup"
)

type SubmitScoreInput struct {
	Team       int `json:"submitted_by_team"`
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

type CounterScoreInput struct {
	Team1Score int     `json:"counter_team1_score"`
	Team2Score int     `json:"counter_team2_score"`
	Notes      *string `json:"counter_notes,omitempty"`
}

type ResolveScoreInput struct {
	FinalTeam1Score int     `json:"final_team1_score"`
	FinalTeam2Score int     `json:"final_team2_score"`
	Notes           *string `json:"admin_notes,omitempty"`
}

// GameScoreStatusView — ответ статусного эндпоинта: последняя запись игры
// и действия, доступные запрашивающему пользователю.
type GameScoreStatusView struct {
	Game       *models.Game      `json:"game"`
	Score      *models.GameScore `json:"score,omitempty"`
	CallerTeam int               `json:"caller_team,omitempty"`
	MaySubmit  bool              `json:"may_submit"`
	MayConfirm bool              `json:"may_confirm"`
}

// GameScoreHistory — аудит-след игры: все записи счёта и реакции на них.
type GameScoreHistory struct {
	Scores        []*models.GameScore        `json:"scores"`
	Confirmations []*models.ScoreConfirmation `json:"confirmations"`
}

type ScoreService interface {
	SubmitScore(ctx context.Context, gameID, userID int, input SubmitScoreInput) (*models.GameScore, error)
	Confirm(ctx context.Context, gameScoreID, userID int) (*models.GameScore, error)
	Counter(ctx context.Context, gameScoreID, userID int, input CounterScoreInput) (*models.GameScore, error)
	AdminResolve(ctx context.Context, gameScoreID, adminID int, input ResolveScoreInput) (*models.GameScore, error)
	GetGameScoreStatus(ctx context.Context, gameID, userID int) (*GameScoreStatusView, error)
	ListGameScores(ctx context.Context, gameID int) (*GameScoreHistory, error)
}

type scoreService struct {
	db               *sql.DB
	gameRepo         repositories.GameRepository
	scoreRepo        repositories.GameScoreRepository
	confirmationRepo repositories.ScoreConfirmationRepository
	userRepo         repositories.UserRepository
	ratingRepo       repositories.RatingHistoryRepository
	hub              *live.Hub
	logger           *slog.Logger
}

func NewScoreService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	scoreRepo repositories.GameScoreRepository,
	confirmationRepo repositories.ScoreConfirmationRepository,
	userRepo repositories.UserRepository,
	ratingRepo repositories.RatingHistoryRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		db:               db,
		gameRepo:         gameRepo,
		scoreRepo:        scoreRepo,
		confirmationRepo: confirmationRepo,
		userRepo:         userRepo,
		ratingRepo:       ratingRepo,
		hub:              hub,
		logger:           logger,
	}
}

func validateScorePair(team1Score, team2Score int) error {
	if team1Score < 0 || team2Score < 0 {
		return ErrScoreNegative
	}
	if team1Score == team2Score {
		return ErrScoreTied
	}
	return nil
}

// withTx выполняет fn в одной транзакции: откат при ошибке или панике,
// иначе коммит.
func (s *scoreService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", err))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *scoreService) SubmitScore(ctx context.Context, gameID, userID int, input SubmitScoreInput) (*models.GameScore, error) {
	if input.Team != 1 && input.Team != 2 {
		return nil, ErrInvalidTeam
	}
	if err := validateScorePair(input.Team1Score, input.Team2Score); err != nil {
		return nil, err
	}

	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	team, err := s.gameRepo.GetPlayerTeam(ctx, gameID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrGamePlayerNotFound) {
			return nil, ErrNotGameParticipant
		}
		return nil, err
	}
	if team != input.Team {
		return nil, ErrWrongTeamSubmission
	}

	score := &models.GameScore{
		GameID:          gameID,
		Team1Score:      input.Team1Score,
		Team2Score:      input.Team2Score,
		SubmittedByTeam: input.Team,
		SubmittedByUser: userID,
		Status:          models.ScoreStatusPending,
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		latest, err := s.scoreRepo.GetLatestByGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if latest != nil {
			if latest.Status.IsTerminal() {
				return ErrScoreAlreadyFinal
			}
			return ErrActiveScoreExists
		}

		if err := s.scoreRepo.Create(ctx, tx, score); err != nil {
			// Частичный уникальный индекс ловит гонку двух одновременных подач.
			if errors.Is(err, repositories.ErrGameScoreActiveConflict) {
				return ErrActiveScoreExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score submitted",
		slog.Int("game_id", gameID),
		slog.Int("game_score_id", score.ID),
		slog.Int("team", input.Team))
	s.broadcast(gameID, live.EventScoreSubmitted, score)
	return score, nil
}

func (s *scoreService) Confirm(ctx context.Context, gameScoreID, userID int) (*models.GameScore, error) {
	var score *models.GameScore

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		score, err = s.lockPendingScore(ctx, tx, gameScoreID, userID)
		if err != nil {
			return err
		}

		confirmation := &models.ScoreConfirmation{
			GameScoreID:    score.ID,
			ConfirmingTeam: opposingTeam(score.SubmittedByTeam),
			ConfirmingUser: userID,
			Action:         models.ActionConfirm,
		}
		if err := s.confirmationRepo.Create(ctx, tx, confirmation); err != nil {
			return err
		}

		// Подтверждение фиксирует ровно те цифры, что были поданы.
		return s.finalize(ctx, tx, score, score.Team1Score, score.Team2Score,
			models.ScoreStatusConfirmed, false, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score confirmed",
		slog.Int("game_id", score.GameID),
		slog.Int("game_score_id", score.ID))
	s.broadcast(score.GameID, live.EventScoreConfirmed, score)
	return score, nil
}

func (s *scoreService) Counter(ctx context.Context, gameScoreID, userID int, input CounterScoreInput) (*models.GameScore, error) {
	if err := validateScorePair(input.Team1Score, input.Team2Score); err != nil {
		return nil, err
	}

	var score *models.GameScore

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		score, err = s.lockPendingScore(ctx, tx, gameScoreID, userID)
		if err != nil {
			return err
		}

		confirmation := &models.ScoreConfirmation{
			GameScoreID:       score.ID,
			ConfirmingTeam:    opposingTeam(score.SubmittedByTeam),
			ConfirmingUser:    userID,
			Action:            models.ActionCounter,
			CounterTeam1Score: &input.Team1Score,
			CounterTeam2Score: &input.Team2Score,
			CounterNotes:      input.Notes,
		}
		if err := s.confirmationRepo.Create(ctx, tx, confirmation); err != nil {
			return err
		}

		if err := s.scoreRepo.MarkDisputed(ctx, tx, score.ID); err != nil {
			if errors.Is(err, repositories.ErrGameScoreStateConflict) {
				return ErrScoreNotPending
			}
			return err
		}
		score.Status = models.ScoreStatusDisputed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score disputed",
		slog.Int("game_id", score.GameID),
		slog.Int("game_score_id", score.ID))
	s.broadcast(score.GameID, live.EventScoreDisputed, score)
	return score, nil
}

func (s *scoreService) AdminResolve(ctx context.Context, gameScoreID, adminID int, input ResolveScoreInput) (*models.GameScore, error) {
	if err := validateScorePair(input.FinalTeam1Score, input.FinalTeam2Score); err != nil {
		return nil, err
	}

	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if admin.Role != models.RoleAdmin {
		return nil, ErrAdminRequired
	}

	var score *models.GameScore

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		score, err = s.scoreRepo.GetByIDForUpdate(ctx, tx, gameScoreID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameScoreNotFound) {
				return ErrGameScoreNotFound
			}
			return err
		}
		if score.Status.IsTerminal() {
			return ErrScoreAlreadyFinal
		}

		// Полномочия админа ограничены клубом, которому принадлежит игра.
		game, err := s.gameRepo.GetByID(ctx, score.GameID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if admin.ClubID != game.ClubID {
			return ErrAdminWrongClub
		}

		// Админ может закрыть и pending, и disputed; финальный счёт может
		// не совпадать ни с одним из предложенных.
		return s.finalize(ctx, tx, score, input.FinalTeam1Score, input.FinalTeam2Score,
			models.ScoreStatusResolved, true, input.Notes)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score resolved by admin",
		slog.Int("game_id", score.GameID),
		slog.Int("game_score_id", score.ID),
		slog.Int("admin_id", adminID))
	s.broadcast(score.GameID, live.EventScoreResolved, score)
	return score, nil
}

// lockPendingScore блокирует запись, проверяет статус pending и право
// противоположной команды реагировать.
func (s *scoreService) lockPendingScore(ctx context.Context, tx *sql.Tx, gameScoreID, userID int) (*models.GameScore, error) {
	score, err := s.scoreRepo.GetByIDForUpdate(ctx, tx, gameScoreID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameScoreNotFound) {
			return nil, ErrGameScoreNotFound
		}
		return nil, err
	}

	if score.Status != models.ScoreStatusPending {
		if score.Status.IsTerminal() {
			return nil, ErrScoreAlreadyFinal
		}
		return nil, ErrScoreNotPending
	}

	team, err := s.gameRepo.GetPlayerTeam(ctx, score.GameID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrGamePlayerNotFound) {
			return nil, ErrNotGameParticipant
		}
		return nil, err
	}
	if team == score.SubmittedByTeam {
		return nil, ErrOwnTeamReaction
	}

	return score, nil
}

// finalize выполняет терминальный переход и применяет рейтинговые дельты
// в той же транзакции: финализация и пересчёт — всё или ничего.
func (s *scoreService) finalize(ctx context.Context, tx *sql.Tx, score *models.GameScore, finalTeam1, finalTeam2 int, status models.GameScoreStatus, adminResolved bool, adminNotes *string) error {
	now := time.Now().UTC()

	if err := s.scoreRepo.Finalize(ctx, tx, score.ID, finalTeam1, finalTeam2, status, adminResolved, adminNotes, now); err != nil {
		if errors.Is(err, repositories.ErrGameScoreStateConflict) {
			return ErrScoreNotPending
		}
		return err
	}

	score.FinalTeam1Score = &finalTeam1
	score.FinalTeam2Score = &finalTeam2
	score.Status = status
	score.AdminResolved = adminResolved
	score.AdminNotes = adminNotes
	score.ConfirmedAt = &now

	return s.applyRatingDeltas(ctx, tx, score)
}

func (s *scoreService) applyRatingDeltas(ctx context.Context, tx *sql.Tx, score *models.GameScore) error {
	players, err := s.gameRepo.ListPlayers(ctx, tx, score.GameID)
	if err != nil {
		return err
	}

	teamOf := make(map[int]int, len(players))
	userIDs := make([]int, 0, len(players))
	for _, p := range players {
		teamOf[p.UserID] = p.Team
		userIDs = append(userIDs, p.UserID)
	}
	sort.Ints(userIDs)

	currentRatings, err := s.userRepo.GetRatingsForUpdate(ctx, tx, userIDs)
	if err != nil {
		return err
	}

	var team1Ratings, team2Ratings []float64
	for userID, rating := range currentRatings {
		switch teamOf[userID] {
		case 1:
			team1Ratings = append(team1Ratings, rating)
		case 2:
			team2Ratings = append(team2Ratings, rating)
		}
	}
	if len(team1Ratings) == 0 || len(team2Ratings) == 0 {
		return fmt.Errorf("game %d has an empty team roster", score.GameID)
	}

	delta1, delta2 := ratings.ComputeRatingDeltas(
		ratings.TeamAverage(team1Ratings),
		ratings.TeamAverage(team2Ratings),
		score.WinningTeam(),
	)

	for _, userID := range userIDs {
		delta := delta1
		if teamOf[userID] == 2 {
			delta = delta2
		}
		before := currentRatings[userID]
		after := ratings.Clamp(before + delta)

		if err := s.userRepo.UpdateRating(ctx, tx, userID, after); err != nil {
			return err
		}
		entry := &models.RatingHistory{
			UserID:       userID,
			GameScoreID:  score.ID,
			RatingBefore: before,
			RatingAfter:  after,
			Delta:        after - before,
		}
		if err := s.ratingRepo.Create(ctx, tx, entry); err != nil {
			return err
		}
	}

	return nil
}

func (s *scoreService) GetGameScoreStatus(ctx context.Context, gameID, userID int) (*GameScoreStatusView, error) {
	view := &GameScoreStatusView{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		game, err := s.gameRepo.GetByID(gCtx, gameID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		view.Game = game
		return nil
	})

	g.Go(func() error {
		score, err := s.scoreRepo.GetLatestByGame(gCtx, nil, gameID)
		if err != nil {
			return err
		}
		view.Score = score
		return nil
	})

	g.Go(func() error {
		team, err := s.gameRepo.GetPlayerTeam(gCtx, gameID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrGamePlayerNotFound) {
				// Не участник — статус виден, действия недоступны.
				return nil
			}
			return err
		}
		view.CallerTeam = team
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if view.CallerTeam != 0 {
		view.MaySubmit = view.Score == nil
		view.MayConfirm = view.Score != nil &&
			view.Score.Status == models.ScoreStatusPending &&
			view.CallerTeam != view.Score.SubmittedByTeam
	}

	return view, nil
}

func (s *scoreService) ListGameScores(ctx context.Context, gameID int) (*GameScoreHistory, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	scores, err := s.scoreRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	confirmations, err := s.confirmationRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return &GameScoreHistory{Scores: scores, Confirmations: confirmations}, nil
}

func (s *scoreService) broadcast(gameID int, eventType string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastGameEvent(gameID, eventType, payload)
	}
}

func opposingTeam(team int) int {
	if team == 1 {
		return 2
	}
	return 1
}
