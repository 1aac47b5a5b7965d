package profiles

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/irontrack/internal/auth"
	"github.com/2beens/irontrack/internal/exercises"
	"github.com/2beens/irontrack/internal/telemetry/tracing"
	"github.com/2beens/irontrack/internal/workouts"
	"github.com/2beens/irontrack/pkg"

	log "github.com/sirupsen/logrus"
)

// ExportDocument is the full account takeout, everything the user ever
// stored, in one JSON blob.
type ExportDocument struct {
	ExportedAt time.Time            `json:"exportedAt"`
	Profile    *Profile             `json:"profile"`
	Exercises  []exercises.Exercise `json:"exercises"`
	Sessions   []workouts.Session   `json:"sessions"`
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.export")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	profile, err := handler.repo.Get(ctx, userID)
	if err != nil {
		log.Errorf("export, failed to get profile %d: %s", userID, err)
		http.Error(w, "failed to export account data", http.StatusInternalServerError)
		return
	}

	userExercises, err := handler.exercisesRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Errorf("export, failed to list exercises for %d: %s", userID, err)
		http.Error(w, "failed to export account data", http.StatusInternalServerError)
		return
	}

	sessions, err := handler.sessionsRepo.AllSessions(ctx, userID)
	if err != nil {
		log.Errorf("export, failed to list sessions for %d: %s", userID, err)
		http.Error(w, "failed to export account data", http.StatusInternalServerError)
		return
	}

	exportDoc := ExportDocument{
		ExportedAt: time.Now(),
		Profile:    profile,
		Exercises:  userExercises,
		Sessions:   sessions,
	}

	exportJson, err := json.MarshalIndent(exportDoc, "", "  ")
	if err != nil {
		log.Errorf("failed to marshal export document: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterExports.Inc()
	log.Debugf("account %d exported, %d sessions, %d exercises", userID, len(sessions), len(userExercises))

	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=irontrack-export-%s.json", exportDoc.ExportedAt.Format("2006-01-02")),
	)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exportJson)
}
