package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory фейки репозиториев. Транзакция (exec) игнорируется:
// её жизненный цикл проверяется через sqlmock Begin/Commit/Rollback. ---

type fakeGameRepo struct {
	games   map[int]*models.Game
	players map[int][]*models.GamePlayer
}

func (r *fakeGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	game, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	return game, nil
}

func (r *fakeGameRepo) ListPlayers(_ context.Context, _ repositories.SQLExecutor, gameID int) ([]*models.GamePlayer, error) {
	return r.players[gameID], nil
}

func (r *fakeGameRepo) GetPlayerTeam(_ context.Context, gameID, userID int) (int, error) {
	for _, p := range r.players[gameID] {
		if p.UserID == userID {
			return p.Team, nil
		}
	}
	return 0, repositories.ErrGamePlayerNotFound
}

type fakeScoreRepo struct {
	scores map[int]*models.GameScore
	nextID int
}

func (r *fakeScoreRepo) Create(_ context.Context, _ repositories.SQLExecutor, score *models.GameScore) error {
	for _, existing := range r.scores {
		if existing.GameID == score.GameID && existing.Status.IsActive() {
			return repositories.ErrGameScoreActiveConflict
		}
	}
	r.nextID++
	score.ID = r.nextID
	score.CreatedAt = time.Now().UTC()
	r.scores[score.ID] = score
	return nil
}

func (r *fakeScoreRepo) GetByID(_ context.Context, id int) (*models.GameScore, error) {
	score, ok := r.scores[id]
	if !ok {
		return nil, repositories.ErrGameScoreNotFound
	}
	return score, nil
}

func (r *fakeScoreRepo) GetByIDForUpdate(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.GameScore, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeScoreRepo) GetLatestByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) (*models.GameScore, error) {
	var latest *models.GameScore
	for _, score := range r.scores {
		if score.GameID != gameID {
			continue
		}
		if latest == nil || score.ID > latest.ID {
			latest = score
		}
	}
	return latest, nil
}

func (r *fakeScoreRepo) ListByGame(_ context.Context, gameID int) ([]*models.GameScore, error) {
	scores := make([]*models.GameScore, 0)
	for id := 1; id <= r.nextID; id++ {
		if score, ok := r.scores[id]; ok && score.GameID == gameID {
			scores = append(scores, score)
		}
	}
	return scores, nil
}

func (r *fakeScoreRepo) MarkDisputed(_ context.Context, _ repositories.SQLExecutor, id int) error {
	score, ok := r.scores[id]
	if !ok || score.Status != models.ScoreStatusPending {
		return repositories.ErrGameScoreStateConflict
	}
	score.Status = models.ScoreStatusDisputed
	return nil
}

func (r *fakeScoreRepo) Finalize(_ context.Context, _ repositories.SQLExecutor, id int, finalTeam1, finalTeam2 int, status models.GameScoreStatus, adminResolved bool, adminNotes *string, confirmedAt time.Time) error {
	score, ok := r.scores[id]
	if !ok || !score.Status.IsActive() {
		return repositories.ErrGameScoreStateConflict
	}
	score.FinalTeam1Score = &finalTeam1
	score.FinalTeam2Score = &finalTeam2
	score.Status = status
	score.AdminResolved = adminResolved
	score.AdminNotes = adminNotes
	score.ConfirmedAt = &confirmedAt
	return nil
}

type fakeConfirmationRepo struct {
	confirmations []*models.ScoreConfirmation
	nextID        int
}

func (r *fakeConfirmationRepo) Create(_ context.Context, _ repositories.SQLExecutor, confirmation *models.ScoreConfirmation) error {
	r.nextID++
	confirmation.ID = r.nextID
	confirmation.CreatedAt = time.Now().UTC()
	r.confirmations = append(r.confirmations, confirmation)
	return nil
}

func (r *fakeConfirmationRepo) ListByGameScore(_ context.Context, gameScoreID int) ([]*models.ScoreConfirmation, error) {
	result := make([]*models.ScoreConfirmation, 0)
	for _, c := range r.confirmations {
		if c.GameScoreID == gameScoreID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeConfirmationRepo) ListByGame(_ context.Context, _ int) ([]*models.ScoreConfirmation, error) {
	return r.confirmations, nil
}

type fakeUserRepo struct {
	users      map[int]*models.User
	ratings    map[int]float64
	failUpdate error
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetRatingsForUpdate(_ context.Context, _ repositories.SQLExecutor, userIDs []int) (map[int]float64, error) {
	result := make(map[int]float64, len(userIDs))
	for _, id := range userIDs {
		rating, ok := r.ratings[id]
		if !ok {
			return nil, repositories.ErrUserNotFound
		}
		result[id] = rating
	}
	return result, nil
}

func (r *fakeUserRepo) UpdateRating(_ context.Context, _ repositories.SQLExecutor, userID int, rating float64) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.ratings[userID] = rating
	return nil
}

type fakeRatingRepo struct {
	entries []*models.RatingHistory
	nextID  int
}

func (r *fakeRatingRepo) Create(_ context.Context, _ repositories.SQLExecutor, entry *models.RatingHistory) error {
	for _, existing := range r.entries {
		if existing.UserID == entry.UserID && existing.GameScoreID == entry.GameScoreID {
			return repositories.ErrRatingAlreadyApplied
		}
	}
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRatingRepo) ListByUser(_ context.Context, userID, _ int) ([]*models.RatingHistory, error) {
	result := make([]*models.RatingHistory, 0)
	for _, e := range r.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

// --- Фикстура: игра 10 клуба 1, пары (1,2) против (3,4), все с рейтингом 4.0. ---

type scoreServiceFixture struct {
	service          *scoreService
	mock             sqlmock.Sqlmock
	gameRepo         *fakeGameRepo
	scoreRepo        *fakeScoreRepo
	confirmationRepo *fakeConfirmationRepo
	userRepo         *fakeUserRepo
	ratingRepo       *fakeRatingRepo
}

const testGameID = 10

func newScoreServiceFixture(t *testing.T) *scoreServiceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gameRepo := &fakeGameRepo{
		games: map[int]*models.Game{
			testGameID: {ID: testGameID, ClubID: 1, PlayedAt: time.Now().UTC()},
		},
		players: map[int][]*models.GamePlayer{
			testGameID: {
				{GameID: testGameID, UserID: 1, Team: 1},
				{GameID: testGameID, UserID: 2, Team: 1},
				{GameID: testGameID, UserID: 3, Team: 2},
				{GameID: testGameID, UserID: 4, Team: 2},
			},
		},
	}
	userRepo := &fakeUserRepo{
		users: map[int]*models.User{
			1:  {ID: 1, Role: models.RolePlayer, ClubID: 1, Rating: 4.0},
			2:  {ID: 2, Role: models.RolePlayer, ClubID: 1, Rating: 4.0},
			3:  {ID: 3, Role: models.RolePlayer, ClubID: 1, Rating: 4.0},
			4:  {ID: 4, Role: models.RolePlayer, ClubID: 1, Rating: 4.0},
			98: {ID: 98, Role: models.RoleAdmin, ClubID: 2},
			99: {ID: 99, Role: models.RoleAdmin, ClubID: 1},
		},
		ratings: map[int]float64{1: 4.0, 2: 4.0, 3: 4.0, 4: 4.0},
	}
	scoreRepo := &fakeScoreRepo{scores: map[int]*models.GameScore{}}
	confirmationRepo := &fakeConfirmationRepo{}
	ratingRepo := &fakeRatingRepo{}

	service := &scoreService{
		db:               db,
		gameRepo:         gameRepo,
		scoreRepo:        scoreRepo,
		confirmationRepo: confirmationRepo,
		userRepo:         userRepo,
		ratingRepo:       ratingRepo,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return &scoreServiceFixture{
		service:          service,
		mock:             mock,
		gameRepo:         gameRepo,
		scoreRepo:        scoreRepo,
		confirmationRepo: confirmationRepo,
		userRepo:         userRepo,
		ratingRepo:       ratingRepo,
	}
}

func (f *scoreServiceFixture) submitPending(t *testing.T) *models.GameScore {
	t.Helper()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	score, err := f.service.SubmitScore(context.Background(), testGameID, 1, SubmitScoreInput{
		Team: 1, Team1Score: 6, Team2Score: 2,
	})
	require.NoError(t, err)
	return score
}

func TestSubmitScore_Validation(t *testing.T) {
	f := newScoreServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.SubmitScore(ctx, testGameID, 1, SubmitScoreInput{Team: 1, Team1Score: 6, Team2Score: 6})
	assert.ErrorIs(t, err, ErrScoreTied)

	_, err = f.service.SubmitScore(ctx, testGameID, 1, SubmitScoreInput{Team: 1, Team1Score: -1, Team2Score: 6})
	assert.ErrorIs(t, err, ErrScoreNegative)

	_, err = f.service.SubmitScore(ctx, testGameID, 1, SubmitScoreInput{Team: 3, Team1Score: 6, Team2Score: 2})
	assert.ErrorIs(t, err, ErrInvalidTeam)

	assert.Empty(t, f.scoreRepo.scores)
}

func TestSubmitScore_Authorization(t *testing.T) {
	f := newScoreServiceFixture(t)
	ctx := context.Background()

	// Посторонний пользователь.
	_, err := f.service.SubmitScore(ctx, testGameID, 77, SubmitScoreInput{Team: 1, Team1Score: 6, Team2Score: 2})
	assert.ErrorIs(t, err, ErrNotGameParticipant)

	// Участник, но не той команды, от имени которой подаёт.
	_, err = f.service.SubmitScore(ctx, testGameID, 1, SubmitScoreInput{Team: 2, Team1Score: 6, Team2Score: 2})
	assert.ErrorIs(t, err, ErrWrongTeamSubmission)
}

func TestSubmitScore_UnknownGame(t *testing.T) {
	f := newScoreServiceFixture(t)

	_, err := f.service.SubmitScore(context.Background(), 404, 1, SubmitScoreInput{Team: 1, Team1Score: 6, Team2Score: 2})
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestSubmitScore_Success(t *testing.T) {
	f := newScoreServiceFixture(t)

	score := f.submitPending(t)

	assert.NotZero(t, score.ID)
	assert.Equal(t, models.ScoreStatusPending, score.Status)
	assert.Equal(t, 6, score.Team1Score)
	assert.Equal(t, 2, score.Team2Score)
	assert.Equal(t, 1, score.SubmittedByTeam)
	assert.Nil(t, score.FinalTeam1Score)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitScore_ActiveConflict(t *testing.T) {
	f := newScoreServiceFixture(t)
	f.submitPending(t)

	// Повторная подача той же команды при живой pending-записи.
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.service.SubmitScore(context.Background(), testGameID, 2, SubmitScoreInput{
		Team: 1, Team1Score: 6, Team2Score: 3,
	})
	assert.ErrorIs(t, err, ErrActiveScoreExists)
	assert.Len(t, f.scoreRepo.scores, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitScore_GameAlreadyFinalized(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.Confirm(context.Background(), score.ID, 3)
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.service.SubmitScore(context.Background(), testGameID, 3, SubmitScoreInput{
		Team: 2, Team1Score: 2, Team2Score: 6,
	})
	assert.ErrorIs(t, err, ErrScoreAlreadyFinal)
}

func TestConfirm_Success(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	confirmed, err := f.service.Confirm(context.Background(), score.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, models.ScoreStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.FinalTeam1Score)
	require.NotNil(t, confirmed.FinalTeam2Score)
	// Финальный счёт — ровно поданные цифры.
	assert.Equal(t, 6, *confirmed.FinalTeam1Score)
	assert.Equal(t, 2, *confirmed.FinalTeam2Score)
	assert.False(t, confirmed.AdminResolved)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// Равные средние рейтинги: победители +0.1, проигравшие -0.1.
	assert.InDelta(t, 4.1, f.userRepo.ratings[1], 1e-9)
	assert.InDelta(t, 4.1, f.userRepo.ratings[2], 1e-9)
	assert.InDelta(t, 3.9, f.userRepo.ratings[3], 1e-9)
	assert.InDelta(t, 3.9, f.userRepo.ratings[4], 1e-9)

	require.Len(t, f.ratingRepo.entries, 4)
	for _, entry := range f.ratingRepo.entries {
		assert.Equal(t, score.ID, entry.GameScoreID)
		assert.InDelta(t, 4.0, entry.RatingBefore, 1e-9)
		assert.InDelta(t, entry.RatingAfter-entry.RatingBefore, entry.Delta, 1e-9)
	}

	require.Len(t, f.confirmationRepo.confirmations, 1)
	confirmation := f.confirmationRepo.confirmations[0]
	assert.Equal(t, models.ActionConfirm, confirmation.Action)
	assert.Equal(t, 2, confirmation.ConfirmingTeam)
	assert.Equal(t, 3, confirmation.ConfirmingUser)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestConfirm_OwnTeamForbidden(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.service.Confirm(context.Background(), score.ID, 2)
	assert.ErrorIs(t, err, ErrOwnTeamReaction)
	assert.Equal(t, models.ScoreStatusPending, f.scoreRepo.scores[score.ID].Status)
}

func TestConfirm_NonParticipantForbidden(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.service.Confirm(context.Background(), score.ID, 77)
	assert.ErrorIs(t, err, ErrNotGameParticipant)
}

func TestConfirm_SecondCallDoesNotReapplyRatings(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.Confirm(context.Background(), score.ID, 3)
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.service.Confirm(context.Background(), score.ID, 3)
	assert.ErrorIs(t, err, ErrScoreAlreadyFinal)

	// Рейтинги и журнал не изменились повторно.
	assert.InDelta(t, 4.1, f.userRepo.ratings[1], 1e-9)
	assert.InDelta(t, 3.9, f.userRepo.ratings[3], 1e-9)
	assert.Len(t, f.ratingRepo.entries, 4)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestConfirm_NotFound(t *testing.T) {
	f := newScoreServiceFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.service.Confirm(context.Background(), 404, 3)
	assert.ErrorIs(t, err, ErrGameScoreNotFound)
}

func TestConfirm_RollsBackWhenRatingWriteFails(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	boom := errors.New("rating write failed")
	f.userRepo.failUpdate = boom

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.service.Confirm(context.Background(), score.ID, 3)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.ratingRepo.entries)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCounter_Success(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	notes := "we won the tiebreak"
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	disputed, err := f.service.Counter(context.Background(), score.ID, 4, CounterScoreInput{
		Team1Score: 6, Team2Score: 4, Notes: &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ScoreStatusDisputed, disputed.Status)
	assert.Nil(t, disputed.FinalTeam1Score)

	// Спор не трогает рейтинги.
	assert.InDelta(t, 4.0, f.userRepo.ratings[1], 1e-9)
	assert.Empty(t, f.ratingRepo.entries)

	require.Len(t, f.confirmationRepo.confirmations, 1)
	confirmation := f.confirmationRepo.confirmations[0]
	assert.Equal(t, models.ActionCounter, confirmation.Action)
	require.NotNil(t, confirmation.CounterTeam1Score)
	assert.Equal(t, 6, *confirmation.CounterTeam1Score)
	assert.Equal(t, 4, *confirmation.CounterTeam2Score)
	assert.Equal(t, &notes, confirmation.CounterNotes)
}

func TestCounter_Validation(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	_, err := f.service.Counter(context.Background(), score.ID, 4, CounterScoreInput{Team1Score: 5, Team2Score: 5})
	assert.ErrorIs(t, err, ErrScoreTied)
}

func TestCounter_OnDisputedFails(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.Counter(context.Background(), score.ID, 4, CounterScoreInput{Team1Score: 6, Team2Score: 4})
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.service.Counter(context.Background(), score.ID, 3, CounterScoreInput{Team1Score: 6, Team2Score: 3})
	assert.ErrorIs(t, err, ErrScoreNotPending)
}

func TestAdminResolve_Success(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	// Оспариваем, затем админ закрывает спор своим счётом.
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.Counter(context.Background(), score.ID, 3, CounterScoreInput{Team1Score: 6, Team2Score: 4})
	require.NoError(t, err)

	notes := "video review"
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resolved, err := f.service.AdminResolve(context.Background(), score.ID, 99, ResolveScoreInput{
		FinalTeam1Score: 6, FinalTeam2Score: 3, Notes: &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ScoreStatusResolved, resolved.Status)
	assert.True(t, resolved.AdminResolved)
	// Финальный счёт админа не совпадает ни с одним из предложенных.
	assert.Equal(t, 6, *resolved.FinalTeam1Score)
	assert.Equal(t, 3, *resolved.FinalTeam2Score)
	assert.Equal(t, &notes, resolved.AdminNotes)

	// Пересчёт применён один раз.
	assert.InDelta(t, 4.1, f.userRepo.ratings[1], 1e-9)
	assert.InDelta(t, 3.9, f.userRepo.ratings[4], 1e-9)
	assert.Len(t, f.ratingRepo.entries, 4)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAdminResolve_PendingShortCircuit(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	// Админ может закрыть и неподтверждённую подачу.
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resolved, err := f.service.AdminResolve(context.Background(), score.ID, 99, ResolveScoreInput{
		FinalTeam1Score: 2, FinalTeam2Score: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ScoreStatusResolved, resolved.Status)
	// Победила команда 2.
	assert.InDelta(t, 3.9, f.userRepo.ratings[1], 1e-9)
	assert.InDelta(t, 4.1, f.userRepo.ratings[3], 1e-9)
}

func TestAdminResolve_RequiresAdmin(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	_, err := f.service.AdminResolve(context.Background(), score.ID, 1, ResolveScoreInput{
		FinalTeam1Score: 6, FinalTeam2Score: 3,
	})
	assert.ErrorIs(t, err, ErrAdminRequired)
}

func TestAdminResolve_WrongClub(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.service.AdminResolve(context.Background(), score.ID, 98, ResolveScoreInput{
		FinalTeam1Score: 6, FinalTeam2Score: 3,
	})
	assert.ErrorIs(t, err, ErrAdminWrongClub)
}

func TestAdminResolve_AlreadyFinal(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.Confirm(context.Background(), score.ID, 3)
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.service.AdminResolve(context.Background(), score.ID, 99, ResolveScoreInput{
		FinalTeam1Score: 6, FinalTeam2Score: 3,
	})
	assert.ErrorIs(t, err, ErrScoreAlreadyFinal)
}

func TestGetGameScoreStatus(t *testing.T) {
	f := newScoreServiceFixture(t)
	ctx := context.Background()

	// Без записей: участник может подать счёт.
	view, err := f.service.GetGameScoreStatus(ctx, testGameID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CallerTeam)
	assert.True(t, view.MaySubmit)
	assert.False(t, view.MayConfirm)
	assert.Nil(t, view.Score)

	score := f.submitPending(t)

	// Податель больше не может ни подать, ни подтвердить.
	view, err = f.service.GetGameScoreStatus(ctx, testGameID, 1)
	require.NoError(t, err)
	assert.False(t, view.MaySubmit)
	assert.False(t, view.MayConfirm)
	require.NotNil(t, view.Score)
	assert.Equal(t, score.ID, view.Score.ID)

	// Противник может подтвердить.
	view, err = f.service.GetGameScoreStatus(ctx, testGameID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, view.CallerTeam)
	assert.False(t, view.MaySubmit)
	assert.True(t, view.MayConfirm)

	// Посторонний видит статус, но без действий.
	view, err = f.service.GetGameScoreStatus(ctx, testGameID, 77)
	require.NoError(t, err)
	assert.Zero(t, view.CallerTeam)
	assert.False(t, view.MaySubmit)
	assert.False(t, view.MayConfirm)
}

func TestListGameScores(t *testing.T) {
	f := newScoreServiceFixture(t)
	score := f.submitPending(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.service.Counter(context.Background(), score.ID, 3, CounterScoreInput{Team1Score: 6, Team2Score: 4})
	require.NoError(t, err)

	history, err := f.service.ListGameScores(context.Background(), testGameID)
	require.NoError(t, err)
	require.Len(t, history.Scores, 1)
	assert.Equal(t, models.ScoreStatusDisputed, history.Scores[0].Status)
	require.Len(t, history.Confirmations, 1)
	assert.Equal(t, models.ActionCounter, history.Confirmations[0].Action)

	_, err = f.service.ListGameScores(context.Background(), 404)
	assert.ErrorIs(t, err, ErrGameNotFound)
}
