package service

import (
	"testing"

	"crm-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNextStageForward(t *testing.T) {
	tests := []struct {
		current         string
		wantStage       string
		wantProbability int
	}{
		{models.StageProspect, models.StageQualification, 25},
		{models.StageQualification, models.StageProposal, 50},
		{models.StageProposal, models.StageNegotiation, 75},
		{models.StageNegotiation, models.StageClosedWon, 100},
		{models.StageClosedWon, models.StageClosedLost, 0},
		{models.StageClosedLost, models.StageClosedLost, 0},
	}

	for _, tt := range tests {
		stage, probability, err := nextStage(tt.current, DirectionForward)
		assert.NoError(t, err)
		assert.Equal(t, tt.wantStage, stage, "forward from %s", tt.current)
		assert.Equal(t, tt.wantProbability, probability, "forward from %s", tt.current)
	}
}

func TestNextStageBackward(t *testing.T) {
	tests := []struct {
		current         string
		wantStage       string
		wantProbability int
	}{
		{models.StageProspect, models.StageProspect, 10},
		{models.StageQualification, models.StageProspect, 10},
		{models.StageProposal, models.StageQualification, 25},
		{models.StageNegotiation, models.StageProposal, 50},
		{models.StageClosedWon, models.StageNegotiation, 75},
		{models.StageClosedLost, models.StageClosedWon, 100},
	}

	for _, tt := range tests {
		stage, probability, err := nextStage(tt.current, DirectionBackward)
		assert.NoError(t, err)
		assert.Equal(t, tt.wantStage, stage, "backward from %s", tt.current)
		assert.Equal(t, tt.wantProbability, probability, "backward from %s", tt.current)
	}
}

func TestNextStageInvalidDirection(t *testing.T) {
	_, _, err := nextStage(models.StageProspect, "sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, _, err = nextStage(models.StageProspect, "")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestNextStageUnknownStage(t *testing.T) {
	// An unrecognized stage sits before the pipeline, so any step lands on
	// prospect
	stage, probability, err := nextStage("bogus", DirectionForward)
	assert.NoError(t, err)
	assert.Equal(t, models.StageProspect, stage)
	assert.Equal(t, 10, probability)

	stage, probability, err = nextStage("bogus", DirectionBackward)
	assert.NoError(t, err)
	assert.Equal(t, models.StageProspect, stage)
	assert.Equal(t, 10, probability)
}

func TestIsTerminalStage(t *testing.T) {
	assert.True(t, isTerminalStage(models.StageClosedWon))
	assert.True(t, isTerminalStage(models.StageClosedLost))
	assert.False(t, isTerminalStage(models.StageProspect))
	assert.False(t, isTerminalStage(models.StageNegotiation))
}
