package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamshub/backend/internal/models"
)

func candidateAt(status models.CandidateStatus) *models.Candidate {
	return &models.Candidate{Status: status}
}

func TestDefaultStagesAreValid(t *testing.T) {
	stages := DefaultStages()

	require.Len(t, stages, 6)
	require.NoError(t, ValidateStages(stages))
	for i, stage := range stages {
		assert.Equal(t, i+1, stage.Order)
	}
	_, hasWithdrawn := FindStage(stages, models.CandidateWithdrawn)
	assert.False(t, hasWithdrawn)
}

func TestValidateStages(t *testing.T) {
	tests := []struct {
		name   string
		stages models.PipelineStages
	}{
		{name: "empty", stages: models.PipelineStages{}},
		{
			name: "duplicate order",
			stages: models.PipelineStages{
				{ID: models.CandidateApplied, Name: "Applied", Order: 1},
				{ID: models.CandidateScreening, Name: "Screening", Order: 1},
			},
		},
		{
			name: "decreasing order",
			stages: models.PipelineStages{
				{ID: models.CandidateApplied, Name: "Applied", Order: 2},
				{ID: models.CandidateScreening, Name: "Screening", Order: 1},
			},
		},
		{
			name: "gap in order",
			stages: models.PipelineStages{
				{ID: models.CandidateApplied, Name: "Applied", Order: 10},
				{ID: models.CandidateScreening, Name: "Screening", Order: 20},
			},
		},
		{
			name: "duplicate id",
			stages: models.PipelineStages{
				{ID: models.CandidateApplied, Name: "Applied", Order: 1},
				{ID: models.CandidateApplied, Name: "Again", Order: 2},
			},
		},
		{
			name: "unknown id",
			stages: models.PipelineStages{
				{ID: "phone-screen", Name: "Phone screen", Order: 1},
			},
		},
		{
			name: "bad color",
			stages: models.PipelineStages{
				{ID: models.CandidateApplied, Name: "Applied", Order: 1, Color: "blue"},
			},
		},
		{
			name: "missing name",
			stages: models.PipelineStages{
				{ID: models.CandidateApplied, Order: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStages(tt.stages)
			require.ErrorIs(t, err, ErrInvalidStages)
		})
	}
}

func TestAdvanceMovesToNextOrder(t *testing.T) {
	stages := DefaultStages()

	cases := map[models.CandidateStatus]models.CandidateStatus{
		models.CandidateApplied:   models.CandidateScreening,
		models.CandidateScreening: models.CandidateInterview,
		models.CandidateInterview: models.CandidateOffer,
		models.CandidateOffer:     models.CandidateHired,
	}
	for from, want := range cases {
		got, ok := Advance(candidateAt(from), stages)
		require.True(t, ok, "advance from %s", from)
		assert.Equal(t, want, got)
	}
}

func TestAdvanceIsNoOpAtEnd(t *testing.T) {
	stages := DefaultStages()

	for _, status := range []models.CandidateStatus{
		models.CandidateHired,
		models.CandidateRejected,
		models.CandidateWithdrawn,
		"archived",
	} {
		got, ok := Advance(candidateAt(status), stages)
		assert.False(t, ok, "advance from %s", status)
		assert.Equal(t, status, got)
	}
}

func TestAdvanceHighestOrderStage(t *testing.T) {
	stages := models.PipelineStages{
		{ID: models.CandidateApplied, Name: "Applied", Order: 10},
		{ID: models.CandidateScreening, Name: "Screening", Order: 11},
		{ID: models.CandidateInterview, Name: "Interview", Order: 12},
	}
	require.NoError(t, ValidateStages(stages))

	got, ok := Advance(candidateAt(models.CandidateApplied), stages)
	require.True(t, ok)
	assert.Equal(t, models.CandidateScreening, got)

	got, ok = Advance(candidateAt(models.CandidateScreening), stages)
	require.True(t, ok)
	assert.Equal(t, models.CandidateInterview, got)

	got, ok = Advance(candidateAt(models.CandidateInterview), stages)
	assert.False(t, ok)
	assert.Equal(t, models.CandidateInterview, got)
	assert.False(t, CanAdvance(candidateAt(models.CandidateInterview), stages))
}

func TestTransitionTo(t *testing.T) {
	stages := DefaultStages()
	c := candidateAt(models.CandidateInterview)

	got, err := TransitionTo(c, models.CandidateRejected, stages)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateRejected, got)

	got, err = TransitionTo(c, models.CandidateScreening, stages)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateScreening, got)

	got, err = TransitionTo(c, models.CandidateWithdrawn, stages)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateWithdrawn, got)

	got, err = TransitionTo(c, "ghosted", stages)
	require.ErrorIs(t, err, ErrUnknownStage)
	assert.Equal(t, models.CandidateInterview, got)

	short := models.PipelineStages{{ID: models.CandidateApplied, Name: "Applied", Order: 1}}
	_, err = TransitionTo(c, models.CandidateOffer, short)
	require.ErrorIs(t, err, ErrUnknownStage)
}
