package core

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch/internal/types"
)

func ptr(v float64) *float64 { return &v }

func validRequest() *types.ScenarioRequest {
	return &types.ScenarioRequest{
		MonsoonIntensity:                ptr(50),
		TopographyDrainage:              ptr(50),
		RiverManagement:                 ptr(50),
		Deforestation:                   ptr(50),
		Urbanization:                    ptr(50),
		ClimateChange:                   ptr(50),
		DamsQuality:                     ptr(50),
		Siltation:                       ptr(50),
		AgriculturalPractices:           ptr(50),
		Encroachments:                   ptr(50),
		IneffectiveDisasterPreparedness: ptr(50),
		DrainageSystems:                 ptr(50),
		CoastalVulnerability:            ptr(50),
		Landslides:                      ptr(50),
		Watersheds:                      ptr(50),
		DeterioratingInfrastructure:     ptr(50),
		PopulationScore:                 ptr(50),
		WetlandLoss:                     ptr(50),
		InadequatePlanning:              ptr(50),
		PoliticalFactors:                ptr(50),
		District:                        "Alappuzha",
		State:                           "Kerala",
	}
}

func TestValidateStructScenarioRequest(t *testing.T) {
	v := NewValidator(slog.Default())

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateStruct(validRequest()))
	})

	t.Run("missing indicator reports field by json name", func(t *testing.T) {
		req := validRequest()
		req.MonsoonIntensity = nil

		err := v.ValidateStruct(req)
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationMissingField, appErr.Code)
		assert.Contains(t, appErr.Details, "MonsoonIntensity")
	})

	t.Run("out of range indicator", func(t *testing.T) {
		req := validRequest()
		req.Siltation = ptr(130)

		err := v.ValidateStruct(req)
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationIndicatorRange, appErr.Code)
		assert.Contains(t, appErr.Details, "Siltation")
	})

	t.Run("negative indicator", func(t *testing.T) {
		req := validRequest()
		req.DamsQuality = ptr(-1)

		err := v.ValidateStruct(req)
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationIndicatorRange, appErr.Code)
	})

	t.Run("missing field outranks range violation", func(t *testing.T) {
		req := validRequest()
		req.MonsoonIntensity = nil
		req.Siltation = ptr(130)

		err := v.ValidateStruct(req)
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationMissingField, appErr.Code)
		assert.Len(t, appErr.Details, 2)
	})

	t.Run("missing district", func(t *testing.T) {
		req := validRequest()
		req.District = ""

		err := v.ValidateStruct(req)
		require.Error(t, err)

		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationMissingField, appErr.Code)
		assert.Contains(t, appErr.Details, "district")
	})
}
