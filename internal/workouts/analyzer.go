package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/irontrack/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	progressCacheExpireSeconds = 5 * 60
	recentSessionsCount        = 5
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=workouts_test

type sessionsRepo interface {
	ListSessions(ctx context.Context, params ListParams) ([]Session, error)
	CompletedDates(ctx context.Context, userID int) ([]time.Time, error)
	PreviousSession(ctx context.Context, userID int, dayType DayType, before time.Time) (*Session, error)
}

// ProgressPoint is one sample of an exercise's trend line.
type ProgressPoint struct {
	Date        time.Time `json:"date"`
	BestOneRM   float64   `json:"best1rm"`
	BestWeight  float64   `json:"bestWeight"`
	TotalVolume float64   `json:"totalVolume"`
}

type ProgressSeries struct {
	ExerciseID int             `json:"exerciseId"`
	Points     []ProgressPoint `json:"points"`
}

type DashboardStats struct {
	WorkoutsThisWeek int              `json:"workoutsThisWeek"`
	SetsThisWeek     int              `json:"setsThisWeek"`
	VolumeThisWeek   float64          `json:"volumeThisWeek"`
	WeekComparison   VolumeComparison `json:"weekComparison"`
	StreakDays       int              `json:"streakDays"`
	RecentSessions   []Session        `json:"recentSessions"`
}

// Analyzer derives progress metrics from the stored sessions. Progress
// series are cached for a few minutes, everything else is cheap enough
// to recompute per request.
type Analyzer struct {
	repo  sessionsRepo
	cache *freecache.Cache

	// Now is swappable in tests, streak and week windows depend on it
	Now func() time.Time
}

func NewAnalyzer(repo sessionsRepo) *Analyzer {
	megabyte := 1024 * 1024
	return &Analyzer{
		repo:  repo,
		cache: freecache.NewCache(10 * megabyte),
		Now:   time.Now,
	}
}

// Progress builds, per exercise, the time-ordered series of
// {date, best 1RM, best weight, volume} samples across all completed
// sessions. Exercises with fewer than two samples carry no trend and
// are dropped; the rest come back richest history first, truncated to
// topN when it is positive. An exercise repeated within one session
// contributes one sample per occurrence.
func (a *Analyzer) Progress(ctx context.Context, userID, topN int) (_ []ProgressSeries, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(fmt.Sprintf("progress::%d::%d", userID, topN))
	if cachedBytes, cacheErr := a.cache.Get(cacheKey); cacheErr == nil {
		var cached []ProgressSeries
		unmarshalErr := json.Unmarshal(cachedBytes, &cached)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
		log.Errorf("failed to unmarshal cached progress for user %d: %s", userID, unmarshalErr)
	}

	sessions, err := a.repo.ListSessions(ctx, ListParams{
		UserID:      userID,
		Status:      StatusCompleted,
		WithDetails: true,
	})
	if err != nil {
		return nil, err
	}

	// sessions arrive date-descending, the series wants ascending
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})

	pointsPerExercise := make(map[int][]ProgressPoint)
	var exerciseOrder []int
	for _, session := range sessions {
		for _, sessionExercise := range session.Exercises {
			agg := AggregateSets(sessionExercise.Sets)
			if _, seen := pointsPerExercise[sessionExercise.ExerciseID]; !seen {
				exerciseOrder = append(exerciseOrder, sessionExercise.ExerciseID)
			}
			pointsPerExercise[sessionExercise.ExerciseID] = append(
				pointsPerExercise[sessionExercise.ExerciseID],
				ProgressPoint{
					Date:        session.Date,
					BestOneRM:   agg.BestOneRM,
					BestWeight:  agg.BestWeight,
					TotalVolume: agg.Volume,
				},
			)
		}
	}

	var series []ProgressSeries
	for _, exerciseID := range exerciseOrder {
		points := pointsPerExercise[exerciseID]
		if len(points) < 2 {
			continue
		}
		series = append(series, ProgressSeries{
			ExerciseID: exerciseID,
			Points:     points,
		})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return len(series[i].Points) > len(series[j].Points)
	})
	if topN > 0 && len(series) > topN {
		series = series[:topN]
	}

	if seriesJson, err := json.Marshal(series); err != nil {
		log.Errorf("failed to marshal progress for caching, user %d: %s", userID, err)
	} else if err := a.cache.Set(cacheKey, seriesJson, progressCacheExpireSeconds); err != nil {
		log.Errorf("failed to cache progress for user %d: %s", userID, err)
	}

	span.SetAttributes(attribute.Int("series.count", len(series)))
	return series, nil
}

// StreakDays counts the user's consecutive logging days, walking back
// from today with a one-day tolerance.
func (a *Analyzer) StreakDays(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.streakDays")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dates, err := a.repo.CompletedDates(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Streak(dates, a.Now()), nil
}

// CompareWithPrevious compares a session's volume with the most recent
// completed session of the same day type before it. When there is no
// earlier session the comparison has no baseline and comes back with a
// zero previous volume and no percent.
func (a *Analyzer) CompareWithPrevious(ctx context.Context, session *Session) (_ VolumeComparison, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.compareWithPrevious")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	previous, err := a.repo.PreviousSession(ctx, session.UserID, session.DayType, session.Date)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return CompareVolume(session.TotalVolume, 0), nil
		}
		return VolumeComparison{}, err
	}
	return CompareVolume(session.TotalVolume, previous.TotalVolume), nil
}

// Dashboard assembles the landing page numbers: this week's totals, the
// week-over-week volume comparison, the logging streak and the last few
// sessions.
func (a *Analyzer) Dashboard(ctx context.Context, userID int) (_ *DashboardStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := a.Now()
	weekStart := startOfWeek(now)
	prevWeekStart := weekStart.AddDate(0, 0, -7)

	thisWeek, err := a.repo.ListSessions(ctx, ListParams{
		UserID:      userID,
		Status:      StatusCompleted,
		From:        &weekStart,
		WithDetails: true,
	})
	if err != nil {
		return nil, err
	}

	prevWeekEnd := weekStart.AddDate(0, 0, -1)
	prevWeek, err := a.repo.ListSessions(ctx, ListParams{
		UserID: userID,
		Status: StatusCompleted,
		From:   &prevWeekStart,
		To:     &prevWeekEnd,
	})
	if err != nil {
		return nil, err
	}

	var setsThisWeek int
	var volumeThisWeek float64
	for _, session := range thisWeek {
		volumeThisWeek += session.TotalVolume
		setsThisWeek += TotalsFor(session.Exercises).TotalSets
	}

	var prevWeekVolume float64
	for _, session := range prevWeek {
		prevWeekVolume += session.TotalVolume
	}

	streak, err := a.StreakDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := a.repo.ListSessions(ctx, ListParams{
		UserID: userID,
		Status: StatusCompleted,
		Limit:  recentSessionsCount,
	})
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		WorkoutsThisWeek: len(thisWeek),
		SetsThisWeek:     setsThisWeek,
		VolumeThisWeek:   volumeThisWeek,
		WeekComparison:   CompareVolume(volumeThisWeek, prevWeekVolume),
		StreakDays:       streak,
		RecentSessions:   recent,
	}, nil
}

// startOfWeek returns the Sunday starting the week of t, midnight.
func startOfWeek(t time.Time) time.Time {
	t = truncateToDay(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}
