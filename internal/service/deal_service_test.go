package service

import (
	"testing"

	"crm-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDealDefaults(t *testing.T) {
	deal, err := applyDealDefaults(&DealRequest{Title: "New website"})
	require.NoError(t, err)

	assert.Equal(t, "New website", deal.Title)
	assert.Equal(t, models.StageProspect, deal.Stage)
	assert.Equal(t, float64(0), deal.Value)
	// Probability stays 0 on create; only a progress transition derives the
	// canonical value
	assert.Equal(t, 0, deal.Probability)
}

func TestApplyDealDefaultsKeepsExplicitFields(t *testing.T) {
	customerID := int64(7)
	deal, err := applyDealDefaults(&DealRequest{
		CustomerID:  &customerID,
		Title:       "Renewal",
		Value:       1500,
		Stage:       models.StageProposal,
		Probability: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StageProposal, deal.Stage)
	assert.Equal(t, float64(1500), deal.Value)
	assert.Equal(t, 50, deal.Probability)
	require.NotNil(t, deal.CustomerID)
	assert.Equal(t, int64(7), *deal.CustomerID)
}

func TestApplyDealDefaultsRequiresTitle(t *testing.T) {
	_, err := applyDealDefaults(&DealRequest{Value: 100})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestApplyDealDefaultsNegativeValue(t *testing.T) {
	deal, err := applyDealDefaults(&DealRequest{Title: "Odd input", Value: -50})
	require.NoError(t, err)
	assert.Equal(t, float64(0), deal.Value)
}

func TestFillStageBreakdownZeroFills(t *testing.T) {
	out := fillStageBreakdown(nil)

	require.Len(t, out, len(stageOrder))
	for i, stat := range out {
		assert.Equal(t, stageOrder[i], stat.Stage)
		assert.Zero(t, stat.Count)
		assert.Zero(t, stat.TotalValue)
	}
}

func TestFillStageBreakdownCanonicalOrder(t *testing.T) {
	// Input deliberately out of order and partial
	out := fillStageBreakdown([]models.StageStat{
		{Stage: models.StageClosedWon, Count: 2, TotalValue: 9000},
		{Stage: models.StageProspect, Count: 5, TotalValue: 1200},
	})

	require.Len(t, out, 6)
	assert.Equal(t, models.StageProspect, out[0].Stage)
	assert.Equal(t, int64(5), out[0].Count)
	assert.Equal(t, models.StageQualification, out[1].Stage)
	assert.Zero(t, out[1].Count)
	assert.Equal(t, models.StageClosedWon, out[4].Stage)
	assert.Equal(t, float64(9000), out[4].TotalValue)
	assert.Equal(t, models.StageClosedLost, out[5].Stage)
}

func TestProgressDeal(t *testing.T) {
	// Requires store, Redis and Kafka; the transition table itself is
	// covered in stage_test.go
	t.Skip("Integration test - requires database and Redis")
}
