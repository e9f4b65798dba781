package schedule

import (
	"errors"
	"fmt"

	"hiring-management-api/internal/model"
)

var (
	ErrBackwardTransition = errors.New("round status cannot move backward")
	ErrSkippedStage       = errors.New("round status cannot skip a stage")
)

var statusRank = map[model.RoundStatus]int{
	model.RoundDraft:     0,
	model.RoundScheduled: 1,
	model.RoundCompleted: 2,
}

// Transitions is the full table of legal round status moves:
// a slot selection takes a draft to scheduled, a sent notification
// takes scheduled to completed. Nothing moves backward.
var Transitions = map[model.RoundStatus]model.RoundStatus{
	model.RoundDraft:     model.RoundScheduled,
	model.RoundScheduled: model.RoundCompleted,
}

// Advance moves a round to the given status. Re-applying the current
// status is a no-op, so callers can be idempotent on retries.
func Advance(r *model.InterviewRound, to model.RoundStatus) error {
	fromRank, ok := statusRank[r.Status]
	if !ok {
		return fmt.Errorf("unknown round status %q", r.Status)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("unknown round status %q", to)
	}
	switch {
	case toRank == fromRank:
		return nil
	case toRank < fromRank:
		return ErrBackwardTransition
	case toRank-fromRank > 1:
		return ErrSkippedStage
	}
	r.Status = to
	return nil
}
