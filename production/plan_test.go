package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodintel/apperr"
	"foodintel/models"
)

func TestPlanMaterials(t *testing.T) {
	plan, err := Plan(models.ProductionPlanRequest{
		Brand:     "몬스터",
		Flavor:    "망고",
		Line:      "1라인",
		StartDate: "2025-03-01",
		EndDate:   "2025-03-11",
		Quantity:  10000,
		Unit:      "500mL",
	})
	require.NoError(t, err)

	assert.Equal(t, "몬스터 망고", plan.Product)
	assert.Equal(t, 5000.0, plan.TotalLiters)
	assert.Equal(t, 10, plan.Days)
	assert.Equal(t, 1000, plan.DailyAverage)

	require.Len(t, plan.Materials, 7)
	want := map[string]float64{
		"정제수": 4250,
		"설탕":  400,
		"구연산": 15,
		"향료":  10,
		"용기":  10000,
		"캡":   10000,
		"라벨":  10000,
	}
	for _, m := range plan.Materials {
		assert.InDelta(t, want[m.Material], m.Amount, 1e-9, m.Material)
	}
	assert.Len(t, plan.Schedule, 6)
}

func TestPlanSameDayRunCountsAsOneDay(t *testing.T) {
	plan, err := Plan(models.ProductionPlanRequest{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-01",
		Quantity:  777,
		Unit:      "355mL",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Days)
	assert.Equal(t, 777, plan.DailyAverage)
	assert.Equal(t, "미입력", plan.Product)
	assert.InDelta(t, 275.835, plan.TotalLiters, 1e-9)
}

func TestPlanUnknownUnitFallsBack(t *testing.T) {
	plan, err := Plan(models.ProductionPlanRequest{Quantity: 100, Unit: "2L"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, plan.TotalLiters)
}

func TestPlanRejectsBadInput(t *testing.T) {
	_, err := Plan(models.ProductionPlanRequest{Quantity: -1})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = Plan(models.ProductionPlanRequest{Quantity: 1, StartDate: "soon", EndDate: "2025-01-01"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
