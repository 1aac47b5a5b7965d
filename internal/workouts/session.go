package workouts

import "time"

type DayType string

const (
	DayTypePush  DayType = "push"
	DayTypePull  DayType = "pull"
	DayTypeLegs  DayType = "legs"
	DayTypeOther DayType = "other"
)

func (dt DayType) IsValid() bool {
	switch dt {
	case DayTypePush, DayTypePull, DayTypeLegs, DayTypeOther:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusCompleted:
		return true
	default:
		return false
	}
}

// Set is one logged set. Weight and RPE can be absent (bodyweight work,
// user skipped the field), EstOneRM is always derived here, never taken
// from the client.
type Set struct {
	ID        int      `json:"id"`
	SetNumber int      `json:"setNumber"`
	Weight    *float64 `json:"weight,omitempty"`
	Reps      int      `json:"reps"`
	RPE       *float64 `json:"rpe,omitempty"`
	EstOneRM  float64  `json:"est1rm"`
}

// Volume is weight times reps, a missing weight contributes 0.
func (s Set) Volume() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight * float64(s.Reps)
}

type SessionExercise struct {
	ID         int    `json:"id"`
	ExerciseID int    `json:"exerciseId"`
	OrderIndex int    `json:"orderIndex"`
	Notes      string `json:"notes,omitempty"`
	Sets       []Set  `json:"sets"`
}

type Session struct {
	ID           int               `json:"id"`
	UserID       int               `json:"-"`
	Date         time.Time         `json:"date"`
	DayType      DayType           `json:"dayType"`
	DayTypeLabel string            `json:"dayTypeLabel,omitempty"`
	Status       Status            `json:"status"`
	TotalVolume  float64           `json:"totalVolume"`
	Exercises    []SessionExercise `json:"exercises,omitempty"`
}

// EstimateOneRM is the Epley estimate: W × (1 + R/30) for more than one
// rep, the weight itself for a single. Zero when no weight was lifted.
func EstimateOneRM(weight *float64, reps int) float64 {
	if weight == nil || *weight == 0 {
		return 0
	}
	if reps == 1 {
		return *weight
	}
	return *weight * (1 + float64(reps)/30)
}

// Normalize prepares a client-submitted session for saving: sets with
// non-positive reps are dropped, the remaining ones renumbered from 1,
// and every derived number (est. 1RM, total volume) recomputed from
// scratch so the stored values never depend on client arithmetic.
func (s *Session) Normalize() {
	for i := range s.Exercises {
		kept := s.Exercises[i].Sets[:0]
		for _, set := range s.Exercises[i].Sets {
			if set.Reps <= 0 {
				continue
			}
			set.SetNumber = len(kept) + 1
			set.EstOneRM = EstimateOneRM(set.Weight, set.Reps)
			kept = append(kept, set)
		}
		s.Exercises[i].Sets = kept
		s.Exercises[i].OrderIndex = i
	}
	s.TotalVolume = TotalsFor(s.Exercises).TotalVolume
}
