package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/irontrack/internal/auth"
	"github.com/2beens/irontrack/internal/telemetry/metrics"
	"github.com/2beens/irontrack/internal/telemetry/tracing"
	"github.com/2beens/irontrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	SaveSession(ctx context.Context, session *Session) (*Session, error)
	GetSession(ctx context.Context, userID, sessionID int) (*Session, error)
	ListSessions(ctx context.Context, params ListParams) ([]Session, error)
	DeleteSession(ctx context.Context, userID, sessionID int) error
}

type SaveSessionRequest struct {
	Date         string  `json:"date"` // yyyy-MM-dd
	DayType      DayType `json:"dayType"`
	DayTypeLabel string  `json:"dayTypeLabel"`
	Status       Status  `json:"status"`
	Exercises    []struct {
		ExerciseID int    `json:"exerciseId"`
		Notes      string `json:"notes"`
		Sets       []struct {
			Weight *float64 `json:"weight"`
			Reps   int      `json:"reps"`
			RPE    *float64 `json:"rpe"`
		} `json:"sets"`
	} `json:"exercises"`
}

type DeleteSessionResponse struct {
	DeletedID int `json:"deletedId"`
}

type HistoryResponse struct {
	Months []MonthGroup `json:"months"`
	Total  int          `json:"total"`
}

type Handler struct {
	repo    workoutsRepo
	metrics *metrics.Manager
}

func NewHandler(repo workoutsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.save")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var saveReq SaveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&saveReq); err != nil {
		log.Errorf("save workout, unmarshal json params: %s", err)
		http.Error(w, "save workout failed", http.StatusBadRequest)
		return
	}

	session, err := sessionFromRequest(userID, saveReq)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	savedSession, err := handler.repo.SaveSession(ctx, session)
	if err != nil {
		log.Errorf("failed to save workout for user %d: %s", userID, err)
		http.Error(w, "error, failed to save workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSessionsSaved.Inc()
	totals := TotalsFor(savedSession.Exercises)
	handler.metrics.CounterSetsLogged.Add(float64(totals.TotalSets))
	log.Debugf(
		"workout saved for user %d: %d [%s], %d exercises, %d sets",
		userID, savedSession.ID, savedSession.DayType, totals.ExerciseCount, totals.TotalSets,
	)

	savedJson, err := json.Marshal(savedSession)
	if err != nil {
		log.Errorf("failed to marshal saved workout: %s", err)
		http.Error(w, "error, failed to save workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

// sessionFromRequest validates a save request and turns it into a
// normalized session, every derived number recomputed here.
func sessionFromRequest(userID int, saveReq SaveSessionRequest) (*Session, error) {
	date, err := time.Parse("2006-01-02", saveReq.Date)
	if err != nil {
		return nil, errors.New("error, invalid date, want yyyy-MM-dd")
	}
	if !saveReq.DayType.IsValid() {
		return nil, errors.New("error, invalid day type")
	}
	if saveReq.Status == "" {
		saveReq.Status = StatusCompleted
	}
	if !saveReq.Status.IsValid() {
		return nil, errors.New("error, invalid status")
	}
	if len(saveReq.Exercises) == 0 {
		return nil, errors.New("error, workout needs at least one exercise")
	}
	if saveReq.DayType != DayTypeOther {
		saveReq.DayTypeLabel = ""
	}

	session := &Session{
		UserID:       userID,
		Date:         date,
		DayType:      saveReq.DayType,
		DayTypeLabel: saveReq.DayTypeLabel,
		Status:       saveReq.Status,
	}
	for i, reqExercise := range saveReq.Exercises {
		if reqExercise.ExerciseID <= 0 {
			return nil, errors.New("error, invalid exercise id")
		}
		sessionExercise := SessionExercise{
			ExerciseID: reqExercise.ExerciseID,
			OrderIndex: i,
			Notes:      reqExercise.Notes,
		}
		for _, reqSet := range reqExercise.Sets {
			if reqSet.Weight != nil && *reqSet.Weight < 0 {
				return nil, errors.New("error, negative weight")
			}
			if reqSet.RPE != nil && (*reqSet.RPE < 6 || *reqSet.RPE > 10) {
				return nil, errors.New("error, rpe out of range 6-10")
			}
			sessionExercise.Sets = append(sessionExercise.Sets, Set{
				Weight: reqSet.Weight,
				Reps:   reqSet.Reps,
				RPE:    reqSet.RPE,
			})
		}
		session.Exercises = append(session.Exercises, sessionExercise)
	}

	session.Normalize()
	return session, nil
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
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
		log.Errorf("failed to get workout %d: %s", sessionID, err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
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

	if err := handler.repo.DeleteSession(ctx, userID, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d: %s", sessionID, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteSessionResponse{
		DeletedID: sessionID,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	sessions, err := handler.repo.ListSessions(ctx, ListParams{
		UserID: userID,
		Status: StatusCompleted,
	})
	if err != nil {
		log.Errorf("failed to list workouts for user %d: %s", userID, err)
		http.Error(w, "failed to get workout history", http.StatusInternalServerError)
		return
	}

	historyRespJson, err := json.Marshal(HistoryResponse{
		Months: GroupByMonth(sessions),
		Total:  len(sessions),
	})
	if err != nil {
		log.Errorf("failed to marshal workout history: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, historyRespJson)
}

func sessionIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
