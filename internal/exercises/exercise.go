package exercises

import "time"

type Category string

const (
	CategoryPush     Category = "push"
	CategoryPull     Category = "pull"
	CategoryLegs     Category = "legs"
	CategoryCore     Category = "core"
	CategoryCardio   Category = "cardio"
	CategoryFullBody Category = "full_body"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryPush, CategoryPull, CategoryLegs, CategoryCore, CategoryCardio, CategoryFullBody:
		return true
	default:
		return false
	}
}

// Exercise is a catalog entry. Built-in exercises have a nil UserID and
// are visible to everyone, user-created ones only to their owner.
type Exercise struct {
	ID           int       `json:"id"`
	UserID       *int      `json:"userId,omitempty"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	IsBodyweight bool      `json:"isBodyweight"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsBuiltIn reports whether the exercise comes from the shared catalog.
func (e Exercise) IsBuiltIn() bool {
	return e.UserID == nil
}
