package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodintel/apperr"
	"foodintel/models"
)

func TestRisks(t *testing.T) {
	all, counts := Risks(AllSteps)
	assert.Len(t, all, 7)
	assert.Equal(t, models.RiskCounts{High: 3, Medium: 2, Low: 2}, counts)

	intake, counts := Risks("원료 입고")
	assert.Len(t, intake, 2)
	assert.Equal(t, models.RiskCounts{High: 1, Medium: 1}, counts)

	none, counts := Risks("전처리/용해")
	assert.Empty(t, none)
	assert.Zero(t, counts)
}

func TestValidateRisk(t *testing.T) {
	assert.NoError(t, ValidateRisk(models.RiskItem{Step: "살균", Item: "온도 기록 누락", Grade: "high"}))
	assert.True(t, apperr.Is(ValidateRisk(models.RiskItem{Step: "살균", Grade: "high"}), apperr.KindValidation))
	assert.True(t, apperr.Is(ValidateRisk(models.RiskItem{Step: "세척", Item: "x", Grade: "high"}), apperr.KindValidation))
	assert.True(t, apperr.Is(ValidateRisk(models.RiskItem{Step: "살균", Item: "x", Grade: "urgent"}), apperr.KindValidation))
}

func TestLibrary(t *testing.T) {
	assert.Len(t, LibraryItems(""), 4)
	items := LibraryItems("시장조사")
	if assert.Len(t, items, 1) {
		assert.Equal(t, "2026 식품트렌드 보고서", items[0].Name)
	}

	total := 0
	for _, s := range LibrarySummary() {
		total += s.Percent
	}
	assert.Equal(t, 100, total)

	assert.NoError(t, ValidateLibraryItem(models.LibraryItem{Name: "설문", Category: "기타"}))
	assert.Error(t, ValidateLibraryItem(models.LibraryItem{Name: "설문", Category: "미분류"}))
}
