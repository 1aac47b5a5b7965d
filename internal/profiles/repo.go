package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/irontrack/internal/telemetry/tracing"
	"github.com/2beens/irontrack/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already taken")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, profile Profile, passwordHash string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := time.Now()
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO profile
				(email, password_hash, name, experience_level, theme_preference, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING id;`,
		profile.Email, passwordHash, profile.Name,
		profile.ExperienceLevel, profile.ThemePreference, now,
	).Scan(&profile.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("profile.id", profile.ID))

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return &profile, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var p Profile
	err = r.db.QueryRow(
		ctx,
		`SELECT id, email, COALESCE(name, ''), COALESCE(experience_level, ''), theme_preference, created_at, updated_at
			FROM profile
			WHERE id = $1;`,
		id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.ExperienceLevel, &p.ThemePreference, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

// GetByEmail returns the profile together with its stored password hash.
func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *Profile, passwordHash string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var p Profile
	err = r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, COALESCE(name, ''), COALESCE(experience_level, ''), theme_preference, created_at, updated_at
			FROM profile
			WHERE lower(email) = lower($1);`,
		email,
	).Scan(&p.ID, &p.Email, &passwordHash, &p.Name, &p.ExperienceLevel, &p.ThemePreference, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrProfileNotFound
		}
		return nil, "", err
	}

	return &p, passwordHash, nil
}

// Update overwrites the mutable profile fields, last writer wins.
func (r *Repo) Update(ctx context.Context, profile Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", profile.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile
			SET name = $1, experience_level = NULLIF($2, ''), theme_preference = $3, updated_at = $4
			WHERE id = $5;`,
		profile.Name, string(profile.ExperienceLevel), profile.ThemePreference, time.Now(), profile.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM profile WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
