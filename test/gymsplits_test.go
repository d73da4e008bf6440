//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymsplits/internal/exercises"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/sessions"
	"github.com/2beens/gymsplits/internal/splits"
	"github.com/2beens/gymsplits/internal/users"
	"github.com/2beens/gymsplits/internal/workouts"
)

func (s *IntegrationTestSuite) TestRoot() {
	var root map[string]string
	status := s.do(context.Background(), http.MethodGet, "/", "", nil, &root)
	s.Equal(http.StatusOK, status)
	s.Equal("test-version-info", root["version"])
}

func (s *IntegrationTestSuite) TestAuth() {
	ctx := context.Background()
	t := s.T()

	status := s.do(ctx, http.MethodGet, "/splits", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	login := s.signupAndLogin(ctx, "auth.flow@gymsplits.app", "password123")

	// same email, different case
	status = s.do(ctx, http.MethodPost, "/auth/signup", "", users.SignupParams{
		Email:    "Auth.Flow@gymsplits.app",
		Password: "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var me users.User
	status = s.do(ctx, http.MethodGet, "/auth/me", login.Token, nil, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, login.UserID, me.ID)
	assert.Equal(t, "auth.flow@gymsplits.app", me.Email)

	status = s.do(ctx, http.MethodPost, "/auth/logout", login.Token, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = s.do(ctx, http.MethodGet, "/auth/me", login.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestSplitsAndWorkouts() {
	ctx := context.Background()
	t := s.T()

	login := s.signupAndLogin(ctx, "push.day@gymsplits.app", "password123")
	token := login.Token

	muscleIDs := map[string]uuid.UUID{}
	for _, name := range []string{"Chest", "Shoulders", "Triceps"} {
		var muscle muscles.Muscle
		status := s.do(ctx, http.MethodPost, "/muscles", token, muscles.NewMuscle{Name: name}, &muscle)
		require.Equal(t, http.StatusCreated, status)
		muscleIDs[name] = muscle.ID
	}

	var bench exercises.ExerciseView
	status := s.do(ctx, http.MethodPost, "/exercises", token, exercises.NewExercise{
		Name:               "Bench Press (Barbell)",
		Equipment:          "Barbell",
		PrimaryMuscleID:    muscleIDs["Chest"],
		SecondaryMuscleIDs: []uuid.UUID{muscleIDs["Shoulders"], muscleIDs["Triceps"]},
	}, &bench)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Chest", bench.PrimaryMuscle.Name)
	require.Len(t, bench.SecondaryMuscles, 2)

	var pushdown exercises.ExerciseView
	status = s.do(ctx, http.MethodPost, "/exercises", token, exercises.NewExercise{
		Name:            "Triceps Pushdown",
		Equipment:       "Cable",
		PrimaryMuscleID: muscleIDs["Triceps"],
	}, &pushdown)
	require.Equal(t, http.StatusCreated, status)

	var created splits.SplitView
	status = s.do(ctx, http.MethodPost, "/splits", token, splits.NewSplit{
		Name: "Push Day",
		Targets: []splits.Target{
			{MuscleID: muscleIDs["Chest"], ExerciseCount: 4},
			{MuscleID: muscleIDs["Shoulders"], ExerciseCount: 3},
			{MuscleID: muscleIDs["Triceps"], ExerciseCount: 2},
		},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Chest / Shoulders / Triceps", created.Description)

	status = s.do(ctx, http.MethodPost, "/splits", token, splits.NewSplit{
		Name:    "Push Day",
		Targets: []splits.Target{{MuscleID: muscleIDs["Chest"], ExerciseCount: 1}},
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	status = s.do(ctx, http.MethodPost, "/splits", token, splits.NewSplit{
		Name:    "Leg Day",
		Targets: []splits.Target{{MuscleID: uuid.New(), ExerciseCount: 1}},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	for _, exerciseID := range []uuid.UUID{bench.ID, bench.ID, pushdown.ID} {
		var entry workouts.Entry
		status = s.do(ctx, http.MethodPost, "/workouts", token, workouts.NewEntry{
			ExerciseID: exerciseID,
			Reps:       []int{10, 8, 6},
			Weights:    []int{60, 70, 80},
		}, &entry)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, login.UserID, entry.UserID)
	}

	var today []workouts.Entry
	status = s.do(ctx, http.MethodGet, "/workouts/today", token, nil, &today)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, today, 3)

	var history []workouts.Entry
	status = s.do(ctx, http.MethodGet, fmt.Sprintf("/workouts/exercise/%s", bench.ID), token, nil, &history)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, history, 2)

	var views []splits.SplitView
	status = s.do(ctx, http.MethodGet, "/splits", token, nil, &views)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, views, 1)

	done := map[string]int{}
	for _, m := range views[0].Muscles {
		done[m.Name] = m.DoneToday
	}
	assert.Equal(t, map[string]int{"Chest": 2, "Shoulders": 0, "Triceps": 1}, done)

	var session sessions.Session
	status = s.do(ctx, http.MethodPost, "/workout-sessions", token, sessions.NewSession{
		SplitID: created.ID,
		Muscles: []splits.Target{{MuscleID: muscleIDs["Chest"], ExerciseCount: 2}},
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, created.ID, session.SplitID)

	status = s.do(ctx, http.MethodPost, "/workout-sessions", token, sessions.NewSession{SplitID: uuid.New()}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var listedSessions []sessions.Session
	status = s.do(ctx, http.MethodGet, "/workout-sessions", token, nil, &listedSessions)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listedSessions, 1)
	assert.Equal(t, session.ID, listedSessions[0].ID)

	// another user sees none of it
	otherLogin := s.signupAndLogin(ctx, "other.user@gymsplits.app", "password123")
	var otherViews []splits.SplitView
	status = s.do(ctx, http.MethodGet, "/splits", otherLogin.Token, nil, &otherViews)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, otherViews)

	var otherSessions []sessions.Session
	status = s.do(ctx, http.MethodGet, "/workout-sessions", otherLogin.Token, nil, &otherSessions)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, otherSessions)
	status = s.do(ctx, http.MethodPost, "/workout-sessions", otherLogin.Token, sessions.NewSession{SplitID: created.ID}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = s.do(ctx, http.MethodDelete, fmt.Sprintf("/splits/%s", created.ID), otherLogin.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// the catalog is not theirs to change
	status = s.do(ctx, http.MethodPost, "/muscles", otherLogin.Token, muscles.NewMuscle{Name: "Forearms"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status = s.do(ctx, http.MethodPost, "/exercises", otherLogin.Token, exercises.NewExercise{
		Name:            "Wrist Curl",
		PrimaryMuscleID: muscleIDs["Chest"],
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = s.do(ctx, http.MethodDelete, fmt.Sprintf("/splits/%s", created.ID), token, nil, &views)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, views)

	status = s.do(ctx, http.MethodDelete, fmt.Sprintf("/splits/%s", created.ID), token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestFavorites() {
	ctx := context.Background()
	t := s.T()

	token := s.signupAndLogin(ctx, "favorites@gymsplits.app", "password123").Token

	var back muscles.Muscle
	status := s.do(ctx, http.MethodPost, "/muscles", token, muscles.NewMuscle{Name: "Back"}, &back)
	require.Equal(t, http.StatusCreated, status)

	var result exercises.BulkResult
	status = s.do(ctx, http.MethodPost, "/exercises/bulk", token, []exercises.NewExercise{
		{Name: "Deadlift", Equipment: "Barbell", PrimaryMuscleID: back.ID},
		{Name: "Lat Pulldown", Equipment: "Cable", PrimaryMuscleID: back.ID, DefaultFavorite: true},
		{Name: "Seated Row", Equipment: "Cable", PrimaryMuscleID: back.ID},
		{Name: "Deadlift", Equipment: "Barbell", PrimaryMuscleID: back.ID},
		{Name: "Ghost Row", PrimaryMuscleID: uuid.New()},
	}, &result)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, result.Created, 3)
	assert.Len(t, result.Skipped, 2)

	listPath := fmt.Sprintf("/muscles/%s/exercises", back.ID)
	var listed []exercises.ExerciseView
	status = s.do(ctx, http.MethodGet, listPath, token, nil, &listed)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listed, 3)
	assert.Equal(t, "Lat Pulldown", listed[0].Name)
	assert.True(t, listed[0].Favorited)

	var seatedRow exercises.ExerciseView
	for _, e := range listed {
		if e.Name == "Seated Row" {
			seatedRow = e
		}
	}

	var afterAdd []exercises.ExerciseView
	status = s.do(ctx, http.MethodPost, "/favorites/"+seatedRow.ID.String(), token, nil, &afterAdd)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, afterAdd, 3)
	assert.True(t, afterAdd[0].Favorited)
	assert.True(t, afterAdd[1].Favorited)
	assert.False(t, afterAdd[2].Favorited)
	assert.Equal(t, "Deadlift", afterAdd[2].Name)

	var favoriteIDs []uuid.UUID
	status = s.do(ctx, http.MethodGet, "/favorites", token, nil, &favoriteIDs)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, favoriteIDs, seatedRow.ID)

	var afterRemove []exercises.ExerciseView
	status = s.do(ctx, http.MethodDelete, "/favorites/"+seatedRow.ID.String(), token, nil, &afterRemove)
	require.Equal(t, http.StatusOK, status)
	for _, e := range afterRemove {
		if e.ID == seatedRow.ID {
			assert.False(t, e.Favorited)
		}
	}

	status = s.do(ctx, http.MethodPost, "/favorites/"+uuid.NewString(), token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestDeleteMe() {
	ctx := context.Background()
	t := s.T()

	token := s.signupAndLogin(ctx, "leaving@gymsplits.app", "password123").Token

	status := s.do(ctx, http.MethodDelete, "/users/me", token, nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	// the session went with the user
	status = s.do(ctx, http.MethodGet, "/splits", token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = s.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "leaving@gymsplits.app",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
