package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
)

var ErrRatingHistoryListFailed = errors.New("failed to list rating history")

const (
	defaultRatingHistoryLimit = 50
	maxRatingHistoryLimit     = 200
)

type RatingService interface {
	ListUserRatingHistory(ctx context.Context, userID, limit int) ([]*models.RatingHistory, error)
}

type ratingService struct {
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingHistoryRepository
}

func NewRatingService(userRepo repositories.UserRepository, ratingRepo repositories.RatingHistoryRepository) RatingService {
	return &ratingService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *ratingService) ListUserRatingHistory(ctx context.Context, userID, limit int) ([]*models.RatingHistory, error) {
	if limit <= 0 {
		limit = defaultRatingHistoryLimit
	}
	if limit > maxRatingHistoryLimit {
		limit = maxRatingHistoryLimit
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	entries, err := s.ratingRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: user %d: %w", ErrRatingHistoryListFailed, userID, err)
	}
	if entries == nil {
		return []*models.RatingHistory{}, nil
	}
	return entries, nil
}
