package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/irontrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSessionNotFound = errors.New("session not found")

type ListParams struct {
	UserID      int
	Status      Status
	DayType     DayType
	From        *time.Time
	To          *time.Time
	Limit       int
	WithDetails bool
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// SaveSession writes the whole session tree, one transaction, so a
// failure partway through leaves nothing behind. The session must be
// normalized before it gets here.
func (r *Repo) SaveSession(ctx context.Context, session *Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.saveSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO workout_session (user_id, date, day_type, day_type_label, status, total_volume)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		session.UserID,
		session.Date,
		session.DayType,
		session.DayTypeLabel,
		session.Status,
		session.TotalVolume,
	).Scan(&session.ID)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	for i := range session.Exercises {
		sessionExercise := &session.Exercises[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO session_exercise (session_id, exercise_id, order_index, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			session.ID,
			sessionExercise.ExerciseID,
			sessionExercise.OrderIndex,
			sessionExercise.Notes,
		).Scan(&sessionExercise.ID)
		if err != nil {
			return nil, fmt.Errorf("insert session exercise %d: %w", i, err)
		}

		for j := range sessionExercise.Sets {
			set := &sessionExercise.Sets[j]
			err = tx.QueryRow(ctx, `
				INSERT INTO set_entry (session_exercise_id, set_number, weight, reps, rpe, est_1rm)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`,
				sessionExercise.ID,
				set.SetNumber,
				set.Weight,
				set.Reps,
				set.RPE,
				set.EstOneRM,
			).Scan(&set.ID)
			if err != nil {
				return nil, fmt.Errorf("insert set %d of exercise %d: %w", j, i, err)
			}
		}
	}

	span.SetAttributes(attribute.Int("session.id", session.ID))
	return session, nil
}

// GetSession loads one session with its full exercise and set tree.
// Sessions of other users come back as not found.
func (r *Repo) GetSession(ctx context.Context, userID, sessionID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	var session Session
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, date, day_type, COALESCE(day_type_label, ''), status, total_volume
		FROM workout_session
		WHERE id = $1 AND user_id = $2
	`, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.Date,
		&session.DayType, &session.DayTypeLabel, &session.Status, &session.TotalVolume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := r.loadDetails(ctx, []*Session{&session}); err != nil {
		return nil, err
	}

	return &session, nil
}

// ListSessions returns sessions date-descending, optionally with the
// nested exercise and set rows.
func (r *Repo) ListSessions(ctx context.Context, params ListParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `
		SELECT id, user_id, date, day_type, COALESCE(day_type_label, ''), status, total_volume
		FROM workout_session
		WHERE user_id = $1`
	args := []interface{}{params.UserID}

	if params.Status != "" {
		args = append(args, params.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if params.DayType != "" {
		args = append(args, params.DayType)
		query += fmt.Sprintf(" AND day_type = $%d", len(args))
	}
	if params.From != nil {
		args = append(args, *params.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if params.To != nil {
		args = append(args, *params.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Date,
			&s.DayType, &s.DayTypeLabel, &s.Status, &s.TotalVolume,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if params.WithDetails {
		sessionPtrs := make([]*Session, len(sessions))
		for i := range sessions {
			sessionPtrs[i] = &sessions[i]
		}
		if err := r.loadDetails(ctx, sessionPtrs); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))
	return sessions, nil
}

// AllSessions is the export read: every session of the user, full tree,
// date-descending.
func (r *Repo) AllSessions(ctx context.Context, userID int) ([]Session, error) {
	return r.ListSessions(ctx, ListParams{
		UserID:      userID,
		WithDetails: true,
	})
}

// CompletedDates returns the distinct calendar dates with a completed
// session, most recent first.
func (r *Repo) CompletedDates(ctx context.Context, userID int) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.completedDates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT date
		FROM workout_session
		WHERE user_id = $1 AND status = $2
		ORDER BY date DESC
	`, userID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}

// PreviousSession finds the most recent completed session of the same
// day type strictly before the given date.
func (r *Repo) PreviousSession(ctx context.Context, userID int, dayType DayType, before time.Time) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.previousSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var s Session
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, date, day_type, COALESCE(day_type_label, ''), status, total_volume
		FROM workout_session
		WHERE user_id = $1 AND day_type = $2 AND status = $3 AND date < $4
		ORDER BY date DESC, id DESC
		LIMIT 1
	`, userID, dayType, StatusCompleted, before).Scan(
		&s.ID, &s.UserID, &s.Date,
		&s.DayType, &s.DayTypeLabel, &s.Status, &s.TotalVolume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *Repo) DeleteSession(ctx context.Context, userID, sessionID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	// child rows go via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `
		DELETE FROM workout_session
		WHERE id = $1 AND user_id = $2
	`, sessionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) DeleteAllForUser(ctx context.Context, userID int) (deleted int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteAllForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("userID", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_session WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// loadDetails fills in the exercise and set rows for the given sessions
// with two queries, one per table.
func (r *Repo) loadDetails(ctx context.Context, sessions []*Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.loadDetails")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(sessions) == 0 {
		return nil
	}

	sessionIDs := make([]int, 0, len(sessions))
	sessionByID := make(map[int]*Session, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
		sessionByID[s.ID] = s
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, exercise_id, order_index, COALESCE(notes, '')
		FROM session_exercise
		WHERE session_id = ANY($1)
		ORDER BY session_id, order_index
	`, sessionIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	var exerciseIDs []int
	for rows.Next() {
		var se SessionExercise
		var sessionID int
		if err := rows.Scan(&se.ID, &sessionID, &se.ExerciseID, &se.OrderIndex, &se.Notes); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
		session := sessionByID[sessionID]
		session.Exercises = append(session.Exercises, se)
		exerciseIDs = append(exerciseIDs, se.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(exerciseIDs) == 0 {
		return nil
	}

	// build the pointer index only after all appends are done, an append
	// above can reallocate a session's Exercises slice
	exerciseByID := make(map[int]*SessionExercise, len(exerciseIDs))
	for _, s := range sessions {
		for i := range s.Exercises {
			exerciseByID[s.Exercises[i].ID] = &s.Exercises[i]
		}
	}

	setRows, err := r.db.Query(ctx, `
		SELECT id, session_exercise_id, set_number, weight, reps, rpe, est_1rm
		FROM set_entry
		WHERE session_exercise_id = ANY($1)
		ORDER BY session_exercise_id, set_number
	`, exerciseIDs)
	if err != nil {
		return err
	}
	defer setRows.Close()

	for setRows.Next() {
		var set Set
		var sessionExerciseID int
		if err := setRows.Scan(
			&set.ID, &sessionExerciseID, &set.SetNumber,
			&set.Weight, &set.Reps, &set.RPE, &set.EstOneRM,
		); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
		sessionExercise := exerciseByID[sessionExerciseID]
		sessionExercise.Sets = append(sessionExercise.Sets, set)
	}
	return setRows.Err()
}
