package workouts

// VolumeComparison compares a period's volume against the preceding one
// of the same kind. PercentDelta stays nil when there is no usable
// baseline, a zero-volume previous period must not produce a division
// artifact.
type VolumeComparison struct {
	CurrentVolume  float64  `json:"currentVolume"`
	PreviousVolume float64  `json:"previousVolume"`
	AbsoluteDelta  float64  `json:"absoluteDelta"`
	PercentDelta   *float64 `json:"percentDelta,omitempty"`
}

func CompareVolume(current, previous float64) VolumeComparison {
	comparison := VolumeComparison{
		CurrentVolume:  current,
		PreviousVolume: previous,
		AbsoluteDelta:  current - previous,
	}
	if previous > 0 {
		percent := comparison.AbsoluteDelta / previous * 100
		comparison.PercentDelta = &percent
	}
	return comparison
}
