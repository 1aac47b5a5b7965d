package workouts

// ExerciseAggregates are the per-exercise-instance numbers shown in a
// session summary, all derived from the raw sets.
type ExerciseAggregates struct {
	BestWeight float64 `json:"bestWeight"`
	BestOneRM  float64 `json:"best1rm"`
	BestSet    *Set    `json:"bestSet,omitempty"`
	Volume     float64 `json:"volume"`
	SetCount   int     `json:"setCount"`
}

type SessionTotals struct {
	TotalVolume   float64 `json:"totalVolume"`
	TotalSets     int     `json:"totalSets"`
	ExerciseCount int     `json:"exerciseCount"`
}

// AggregateSets folds one exercise instance's sets into its aggregates.
// Missing weights count as 0, an empty slice yields all zeros. The best
// set is the one with the highest weight×reps, first occurrence wins a
// tie.
func AggregateSets(sets []Set) ExerciseAggregates {
	agg := ExerciseAggregates{
		SetCount: len(sets),
	}

	bestSetVolume := -1.0
	for i, set := range sets {
		weight := 0.0
		if set.Weight != nil {
			weight = *set.Weight
		}
		if weight > agg.BestWeight {
			agg.BestWeight = weight
		}
		if set.EstOneRM > agg.BestOneRM {
			agg.BestOneRM = set.EstOneRM
		}

		setVolume := set.Volume()
		agg.Volume += setVolume
		if setVolume > bestSetVolume {
			bestSetVolume = setVolume
			agg.BestSet = &sets[i]
		}
	}

	return agg
}

// TotalsFor sums exercise-level aggregates into the session totals.
func TotalsFor(sessionExercises []SessionExercise) SessionTotals {
	totals := SessionTotals{
		ExerciseCount: len(sessionExercises),
	}
	for _, se := range sessionExercises {
		agg := AggregateSets(se.Sets)
		totals.TotalVolume += agg.Volume
		totals.TotalSets += agg.SetCount
	}
	return totals
}
