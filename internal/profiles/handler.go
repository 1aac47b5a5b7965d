package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/irontrack/internal/auth"
	"github.com/2beens/irontrack/internal/exercises"
	"github.com/2beens/irontrack/internal/telemetry/metrics"
	"github.com/2beens/irontrack/internal/telemetry/tracing"
	"github.com/2beens/irontrack/internal/workouts"
	"github.com/2beens/irontrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// DeleteConfirmationPhrase has to be sent verbatim in the delete
// account request, anything else aborts the deletion.
const DeleteConfirmationPhrase = "DELETE"

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profiles_test

type profilesRepo interface {
	Get(ctx context.Context, id int) (*Profile, error)
	Update(ctx context.Context, profile Profile) error
	Delete(ctx context.Context, id int) error
}

type exercisesRepo interface {
	ListForUser(ctx context.Context, userID int) ([]exercises.Exercise, error)
	DeleteAllForUser(ctx context.Context, userID int) (int, error)
}

type sessionsRepo interface {
	AllSessions(ctx context.Context, userID int) ([]workouts.Session, error)
	DeleteAllForUser(ctx context.Context, userID int) (int, error)
}

type UpdateProfileRequest struct {
	Name            string          `json:"name"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	ThemePreference ThemePreference `json:"themePreference"`
}

type DeleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

type DeleteAccountResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo          profilesRepo
	exercisesRepo exercisesRepo
	sessionsRepo  sessionsRepo
	metrics       *metrics.Manager
}

func NewHandler(
	repo profilesRepo,
	exercisesRepo exercisesRepo,
	sessionsRepo sessionsRepo,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		repo:          repo,
		exercisesRepo: exercisesRepo,
		sessionsRepo:  sessionsRepo,
		metrics:       metrics,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	profile, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile %d: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.update")
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

	var updateReq UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	if updateReq.ExperienceLevel != "" && !updateReq.ExperienceLevel.IsValid() {
		http.Error(w, "invalid experience level", http.StatusBadRequest)
		return
	}
	if updateReq.ThemePreference == "" {
		updateReq.ThemePreference = ThemeSystem
	}
	if !updateReq.ThemePreference.IsValid() {
		http.Error(w, "invalid theme preference", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, Profile{
		ID:              userID,
		Name:            updateReq.Name,
		ExperienceLevel: updateReq.ExperienceLevel,
		ThemePreference: updateReq.ThemePreference,
	}); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update profile %d: %s", userID, err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	updated, err := handler.repo.Get(ctx, userID)
	if err != nil {
		log.Errorf("failed to get updated profile %d: %s", userID, err)
		http.Error(w, "failed to get updated profile", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal updated profile: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.deleteAccount")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	var deleteReq DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&deleteReq); err != nil {
		log.Errorf("delete account, unmarshal json params: %s", err)
		http.Error(w, "delete account failed", http.StatusBadRequest)
		return
	}

	if deleteReq.Confirmation != DeleteConfirmationPhrase {
		http.Error(w, "invalid confirmation phrase", http.StatusBadRequest)
		return
	}

	// remove the account data first, the profile row last, so a
	// partial failure leaves a still-working account
	var deleteErr error
	if _, err := handler.sessionsRepo.DeleteAllForUser(ctx, userID); err != nil {
		deleteErr = multierr.Append(deleteErr, err)
	}
	if _, err := handler.exercisesRepo.DeleteAllForUser(ctx, userID); err != nil {
		deleteErr = multierr.Append(deleteErr, err)
	}
	if deleteErr == nil {
		if err := handler.repo.Delete(ctx, userID); err != nil && !errors.Is(err, ErrProfileNotFound) {
			deleteErr = multierr.Append(deleteErr, err)
		}
	}

	if deleteErr != nil {
		log.Errorf("failed to delete account %d: %s", userID, deleteErr)
		http.Error(w, "failed to delete account", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterAccountsDeleted.Inc()
	log.Warnf("account %d deleted", userID)

	deleteRespJson, err := json.Marshal(DeleteAccountResponse{
		DeletedID: userID,
	})
	if err != nil {
		log.Errorf("failed to marshal delete account response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
