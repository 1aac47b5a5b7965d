package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/irontrack/internal/auth"
	"github.com/2beens/irontrack/internal/telemetry/tracing"
	"github.com/2beens/irontrack/pkg"

	log "github.com/sirupsen/logrus"
)

const defaultProgressTopN = 8

//go:generate mockgen -source=$GOFILE -destination=stats_handler_mocks_test.go -package=workouts_test

type workoutsAnalyzer interface {
	Progress(ctx context.Context, userID, topN int) ([]ProgressSeries, error)
	Dashboard(ctx context.Context, userID int) (*DashboardStats, error)
	CompareWithPrevious(ctx context.Context, session *Session) (VolumeComparison, error)
}

type SessionSummary struct {
	Session    *Session                   `json:"session"`
	Exercises  map[int]ExerciseAggregates `json:"exercises"` // keyed by session exercise id
	Totals     SessionTotals              `json:"totals"`
	Comparison VolumeComparison           `json:"comparison"`
}

type ProgressResponse struct {
	Series []ProgressSeries `json:"series"`
}

// StatsHandler serves the derived numbers: summaries, progress series
// and the dashboard.
type StatsHandler struct {
	repo     workoutsRepo
	analyzer workoutsAnalyzer
}

func NewStatsHandler(repo workoutsRepo, analyzer workoutsAnalyzer) *StatsHandler {
	return &StatsHandler{
		repo:     repo,
		analyzer: analyzer,
	}
}

func (handler *StatsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	session, err := handler.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("summary, failed to get workout %d: %s", sessionID, err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}

	summary := SessionSummary{
		Session:   session,
		Exercises: make(map[int]ExerciseAggregates, len(session.Exercises)),
		Totals:    TotalsFor(session.Exercises),
	}
	for _, sessionExercise := range session.Exercises {
		summary.Exercises[sessionExercise.ID] = AggregateSets(sessionExercise.Sets)
	}

	comparison, err := handler.analyzer.CompareWithPrevious(ctx, session)
	if err != nil {
		// degrade to no baseline instead of failing the whole summary
		log.Errorf("summary, failed to compare workout %d with previous: %s", sessionID, err)
		comparison = CompareVolume(session.TotalVolume, 0)
	}
	summary.Comparison = comparison

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal workout summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
}

func (handler *StatsHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	topN := defaultProgressTopN
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		top, err := strconv.Atoi(topStr)
		if err != nil || top < 1 {
			http.Error(w, "invalid top parameter", http.StatusBadRequest)
			return
		}
		topN = top
	}

	series, err := handler.analyzer.Progress(ctx, userID, topN)
	if err != nil {
		// analytics reads degrade to empty data
		log.Errorf("failed to build progress for user %d: %s", userID, err)
		series = nil
	}

	progressJson, err := json.Marshal(ProgressResponse{Series: series})
	if err != nil {
		log.Errorf("failed to marshal progress: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, progressJson)
}

func (handler *StatsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dashboard")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	stats, err := handler.analyzer.Dashboard(ctx, userID)
	if err != nil {
		log.Errorf("failed to build dashboard for user %d: %s", userID, err)
		// empty dashboard instead of an error page
		stats = &DashboardStats{
			WeekComparison: CompareVolume(0, 0),
		}
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal dashboard: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statsJson)
}
