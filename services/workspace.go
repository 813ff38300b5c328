package services

import (
	"fmt"
	"slices"
	"strings"

	"foodintel/apperr"
	"foodintel/models"
)

// AllSteps selects every process step or library category.
const AllSteps = "전체"

// ProcessSteps are the production process steps risks are filed under.
var ProcessSteps = []string{"원료 입고", "전처리/용해", "배합", "살균", "충전", "포장", "출하"}

// RiskGrades are the accepted risk grades.
var RiskGrades = []string{"high", "medium", "low"}

var risks = []models.RiskItem{
	{Step: "원료 입고", Item: "원료 규격 미달", Grade: "high", Action: "COA 확인 및 반품 절차 진행"},
	{Step: "원료 입고", Item: "이물 혼입 가능성", Grade: "medium", Action: "입고 검사 강화 (금속 검출기)"},
	{Step: "배합", Item: "당도 편차 ±0.5 초과", Grade: "medium", Action: "자동 계량 시스템 점검"},
	{Step: "살균", Item: "살균 온도 미달", Grade: "high", Action: "온도 센서 교체 및 재살균"},
	{Step: "충전", Item: "충전량 편차", Grade: "low", Action: "충전기 노즐 청소"},
	{Step: "포장", Item: "라벨 오부착", Grade: "low", Action: "비전 검사 시스템 운영"},
	{Step: "출하", Item: "유통기한 오기재", Grade: "high", Action: "최종 출하 검사 체크리스트 확인"},
}

// LibraryCategories are the reference library classifications.
var LibraryCategories = []string{"시장조사", "소비자분석", "원재료정보", "품질/규격", "기타"}

var libraryItems = []models.LibraryItem{
	{Name: "2026 식품트렌드 보고서", Category: "시장조사", RegisteredAt: "2026-02-18", Owner: "홍길동"},
	{Name: "HMR 소비자 설문", Category: "소비자분석", RegisteredAt: "2026-02-17", Owner: "김영희"},
	{Name: "라면 원재료 현황", Category: "원재료정보", RegisteredAt: "2026-02-16", Owner: "이철수"},
	{Name: "HACCP 점검 매뉴얼", Category: "품질/규격", RegisteredAt: "2026-02-15", Owner: "박민준"},
}

var librarySummary = []models.LibraryCategorySummary{
	{Category: "시장조사", Count: 412, Percent: 33},
	{Category: "소비자분석", Count: 287, Percent: 23},
	{Category: "원재료정보", Count: 231, Percent: 19},
	{Category: "품질/규격", Count: 310, Percent: 25},
}

// Risks returns the checklist entries of one process step, or all of them
// for an empty step or AllSteps, with the per-grade counts.
func Risks(step string) ([]models.RiskItem, models.RiskCounts) {
	var counts models.RiskCounts
	out := make([]models.RiskItem, 0, len(risks))
	for _, r := range risks {
		if step != "" && step != AllSteps && r.Step != step {
			continue
		}
		out = append(out, r)
		switch r.Grade {
		case "high":
			counts.High++
		case "medium":
			counts.Medium++
		case "low":
			counts.Low++
		}
	}
	return out, counts
}

// ValidateRisk checks a new checklist entry. Entries are not persisted.
func ValidateRisk(item models.RiskItem) error {
	const op = "workspace.ValidateRisk"
	if strings.TrimSpace(item.Item) == "" {
		return apperr.Validation(op, "enter the risk item")
	}
	if !slices.Contains(ProcessSteps, item.Step) {
		return apperr.Validation(op, fmt.Sprintf("unknown process step %q", item.Step))
	}
	if !slices.Contains(RiskGrades, item.Grade) {
		return apperr.Validation(op, fmt.Sprintf("unknown grade %q", item.Grade))
	}
	return nil
}

// LibraryItems returns the library documents of one category, or all of them
// for an empty category or AllSteps.
func LibraryItems(category string) []models.LibraryItem {
	out := make([]models.LibraryItem, 0, len(libraryItems))
	for _, it := range libraryItems {
		if category == "" || category == AllSteps || it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// LibrarySummary returns the document count per category.
func LibrarySummary() []models.LibraryCategorySummary {
	out := make([]models.LibraryCategorySummary, len(librarySummary))
	copy(out, librarySummary)
	return out
}

// ValidateLibraryItem checks a new library document. Documents are not
// persisted.
func ValidateLibraryItem(item models.LibraryItem) error {
	const op = "workspace.ValidateLibraryItem"
	if strings.TrimSpace(item.Name) == "" {
		return apperr.Validation(op, "enter the document name")
	}
	if !slices.Contains(LibraryCategories, item.Category) {
		return apperr.Validation(op, fmt.Sprintf("unknown category %q", item.Category))
	}
	return nil
}
