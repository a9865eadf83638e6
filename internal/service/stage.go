package service

import (
	"errors"

	"crm-service/internal/models"
)

// Progress directions
const (
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

// ErrInvalidDirection is returned when a progress request carries a
// direction other than forward or backward. No mutation happens.
var ErrInvalidDirection = errors.New(`invalid direction. Use "forward" or "backward"`)

// stageOrder is the canonical pipeline walk. closed_lost occupies the slot
// after closed_won, so a forward step from a won deal lands on closed_lost.
// That boundary behavior is part of the contract; see stage_test.go.
var stageOrder = []string{
	models.StageProspect,
	models.StageQualification,
	models.StageProposal,
	models.StageNegotiation,
	models.StageClosedWon,
	models.StageClosedLost,
}

// stageProbability maps each stage to its canonical win probability.
// Always a direct lookup, never interpolated.
var stageProbability = map[string]int{
	models.StageProspect:      10,
	models.StageQualification: 25,
	models.StageProposal:      50,
	models.StageNegotiation:   75,
	models.StageClosedWon:     100,
	models.StageClosedLost:    0,
}

// nextStage resolves a (stage, direction) pair to the new stage and its
// canonical probability. Both ends of the walk clamp instead of erroring.
func nextStage(current, direction string) (string, int, error) {
	idx := stageIndex(current)

	switch direction {
	case DirectionForward:
		idx++
		if idx > len(stageOrder)-1 {
			idx = len(stageOrder) - 1
		}
	case DirectionBackward:
		idx--
		if idx < 0 {
			idx = 0
		}
	default:
		return "", 0, ErrInvalidDirection
	}

	stage := stageOrder[idx]
	return stage, stageProbability[stage], nil
}

// stageIndex returns -1 for an unknown stage, which the clamp logic then
// resolves to the start of the pipeline either way.
func stageIndex(stage string) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// isTerminalStage reports whether a deal has left the active pipeline
func isTerminalStage(stage string) bool {
	return stage == models.StageClosedWon || stage == models.StageClosedLost
}
