package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements the read-only profile lookup the analysis
// tracker needs. Profile CRUD lives in another service.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// GetByID fetches the profile slice used for analysis context.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	query := `
SELECT id,
       name,
       COALESCE(role, ''),
       COALESCE(department, ''),
       COALESCE(bio, ''),
       COALESCE(experience_level, ''),
       COALESCE(linkedin_profile, ''),
       COALESCE(twitter_profile, ''),
       COALESCE(skills, '{}')
FROM users
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)

	var u domain.UserProfile
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Role,
		&u.Department,
		&u.Bio,
		&u.ExperienceLevel,
		&u.LinkedinProfile,
		&u.TwitterProfile,
		&u.Skills,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
