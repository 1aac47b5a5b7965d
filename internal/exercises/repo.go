package exercises

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
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseExists   = errors.New("exercise already exists")
)

type ListParams struct {
	UserID   int
	Search   string
	Category Category
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, exercise *Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise
				(user_id, name, category, is_bodyweight, created_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		exercise.UserID, exercise.Name, exercise.Category, exercise.IsBodyweight, exercise.CreatedAt,
	).Scan(&exercise.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrExerciseExists
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return exercise, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var e Exercise
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, category, is_bodyweight, created_at
			FROM exercise
			WHERE id = $1;`,
		id,
	).Scan(&e.ID, &e.UserID, &e.Name, &e.Category, &e.IsBodyweight, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	return &e, nil
}

// List returns the built-in catalog plus the user's own exercises,
// optionally narrowed by a name search and a category.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `SELECT id, user_id, name, category, is_bodyweight, created_at
		FROM exercise
		WHERE (user_id IS NULL OR user_id = $1)`
	args := []interface{}{params.UserID}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if params.Category != "" {
		args = append(args, params.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY name;"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Category, &e.IsBodyweight, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

// ListForUser returns only the exercises the user created, used by the
// account export.
func (r *Repo) ListForUser(ctx context.Context, userID int) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, category, is_bodyweight, created_at
			FROM exercise
			WHERE user_id = $1
			ORDER BY name;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Category, &e.IsBodyweight, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *Repo) DeleteAllForUser(ctx context.Context, userID int) (deleted int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.deleteAllForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("userID", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE user_id = $1;`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
