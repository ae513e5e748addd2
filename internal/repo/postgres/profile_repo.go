package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepo is a read-only view over the profile collaborator's table.
// The matching core never writes profiles.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	user_id,
	display_name,
	age,
	gender,
	sought_genders,
	age_min,
	age_max,
	lat,
	lon,
	location_set,
	max_radius_km,
	interests,
	lifestyle,
	pace,
	last_active_at,
	dealbreakers
`

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE user_id = $1 AND active
`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepo) ListActive(ctx context.Context) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE active
ORDER BY last_active_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list active profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.Profile, 0, 128)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return profiles, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var profile model.Profile
	var lifestyleRaw, dealbreakersRaw []byte
	if err := row.Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Age,
		&profile.Gender,
		&profile.SoughtGenders,
		&profile.AgeMin,
		&profile.AgeMax,
		&profile.Lat,
		&profile.Lon,
		&profile.LocationSet,
		&profile.MaxRadiusKM,
		&profile.Interests,
		&lifestyleRaw,
		&profile.Pace,
		&profile.LastActiveAt,
		&dealbreakersRaw,
	); err != nil {
		return model.Profile{}, err
	}

	if len(lifestyleRaw) > 0 {
		if err := json.Unmarshal(lifestyleRaw, &profile.Lifestyle); err != nil {
			return model.Profile{}, fmt.Errorf("decode lifestyle: %w", err)
		}
	}
	if len(dealbreakersRaw) > 0 {
		if err := json.Unmarshal(dealbreakersRaw, &profile.Dealbreakers); err != nil {
			return model.Profile{}, fmt.Errorf("decode dealbreakers: %w", err)
		}
	}

	return profile, nil
}
