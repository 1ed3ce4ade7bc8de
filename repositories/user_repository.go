package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/padelpoint/padel-system/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	// GetRatingsForUpdate читает текущие рейтинги под блокировкой
	// (FOR UPDATE) в порядке возрастания id — одинаковый порядок захвата
	// исключает взаимоблокировки между параллельными финализациями.
	GetRatingsForUpdate(ctx context.Context, exec SQLExecutor, userIDs []int) (map[int]float64, error)
	UpdateRating(ctx context.Context, exec SQLExecutor, userID int, rating float64) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, nickname, club_id, role, email, rating, created_at
		FROM users
		WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Nickname,
		&user.ClubID,
		&user.Role,
		&user.Email,
		&user.Rating,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetRatingsForUpdate(ctx context.Context, exec SQLExecutor, userIDs []int) (map[int]float64, error) {
	query := `
		SELECT id, rating
		FROM users
		WHERE id = ANY($1)
		ORDER BY id ASC
		FOR UPDATE`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[int]float64, len(userIDs))
	for rows.Next() {
		var id int
		var rating float64
		if scanErr := rows.Scan(&id, &rating); scanErr != nil {
			return nil, scanErr
		}
		ratings[id] = rating
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ratings) != len(userIDs) {
		return nil, ErrUserNotFound
	}

	return ratings, nil
}

func (r *postgresUserRepository) UpdateRating(ctx context.Context, exec SQLExecutor, userID int, rating float64) error {
	query := `UPDATE users SET rating = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, rating, userID)
	if err != nil {
		return err
	}

	return checkAffectedRows(result, ErrUserNotFound)
}
