package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/exercises"
)

// seedExercise is one entry of the generated exercises seed file.
// Ids stay strings so one bad entry does not reject the whole file.
type seedExercise struct {
	Name             string   `json:"name"`
	Pic              string   `json:"pic"`
	Tips             string   `json:"tips"`
	Equipment        string   `json:"equipment"`
	Favourite        bool     `json:"favourite"`
	MuscleID         string   `json:"muscle_id"`
	SecondaryMuscles []string `json:"secondary_muscles"`
}

func (s seedExercise) toNewExercise() (exercises.NewExercise, error) {
	primaryID, err := uuid.Parse(s.MuscleID)
	if err != nil {
		return exercises.NewExercise{}, fmt.Errorf("invalid muscle_id [%s]: %w", s.MuscleID, err)
	}

	secondaryIDs := make([]uuid.UUID, 0, len(s.SecondaryMuscles))
	for _, raw := range s.SecondaryMuscles {
		id, err := uuid.Parse(raw)
		if err != nil {
			return exercises.NewExercise{}, fmt.Errorf("invalid secondary muscle id [%s]: %w", raw, err)
		}
		secondaryIDs = append(secondaryIDs, id)
	}

	return exercises.NewExercise{
		Name:               s.Name,
		Image:              s.Pic,
		Tips:               s.Tips,
		Equipment:          s.Equipment,
		DefaultFavorite:    s.Favourite,
		PrimaryMuscleID:    primaryID,
		SecondaryMuscleIDs: secondaryIDs,
	}, nil
}

// readSeed decodes the seed file. Entries with unparsable muscle ids are
// returned as skipped, the rest are ready for the bulk import.
func readSeed(r io.Reader) ([]exercises.NewExercise, []exercises.SkippedExercise, error) {
	var seed []seedExercise
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, nil, fmt.Errorf("decode seed: %w", err)
	}

	newExercises := make([]exercises.NewExercise, 0, len(seed))
	var skipped []exercises.SkippedExercise
	for _, s := range seed {
		newExercise, err := s.toNewExercise()
		if err != nil {
			skipped = append(skipped, exercises.SkippedExercise{Name: s.Name, Reason: err.Error()})
			continue
		}
		newExercises = append(newExercises, newExercise)
	}
	return newExercises, skipped, nil
}
