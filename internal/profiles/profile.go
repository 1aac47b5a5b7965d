package profiles

import "time"

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

func (el ExperienceLevel) IsValid() bool {
	switch el {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	default:
		return false
	}
}

type ThemePreference string

const (
	ThemeLight    ThemePreference = "light"
	ThemeHardcore ThemePreference = "hardcore"
	ThemeSystem   ThemePreference = "system"
)

func (tp ThemePreference) IsValid() bool {
	switch tp {
	case ThemeLight, ThemeHardcore, ThemeSystem:
		return true
	default:
		return false
	}
}

type Profile struct {
	ID              int             `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel,omitempty"`
	ThemePreference ThemePreference `json:"themePreference"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
