package splits

import (
	"cmp"
	"slices"
	"strings"
)

const (
	descriptionMuscles   = 3
	descriptionSeparator = " / "
)

// rankedDescription names up to three muscles with the highest exercise
// counts. Equal counts keep row order.
func rankedDescription(muscles []MuscleProgress) string {
	ranked := slices.Clone(muscles)
	slices.SortStableFunc(ranked, func(a, b MuscleProgress) int {
		return cmp.Compare(b.ExerciseCount, a.ExerciseCount)
	})
	return joinNames(ranked)
}

// insertionDescription names the first three muscles as they were inserted.
func insertionDescription(muscles []MuscleProgress) string {
	return joinNames(muscles)
}

func joinNames(muscles []MuscleProgress) string {
	names := make([]string, 0, descriptionMuscles)
	for _, m := range muscles[:min(len(muscles), descriptionMuscles)] {
		names = append(names, m.Name)
	}
	return strings.Join(names, descriptionSeparator)
}
