// Package production computes material requirements for a production run.
package production

import (
	"fmt"
	"math"
	"strings"

	"foodintel/apperr"
	"foodintel/models"
	"foodintel/utils"
)

// DefaultUnitLiters is used when the container unit is not one of Units.
const DefaultUnitLiters = 0.5

// Units maps the container sizes offered on the plan form to litres.
var Units = map[string]float64{
	"200mL": 0.2,
	"250mL": 0.25,
	"355mL": 0.355,
	"500mL": 0.5,
	"1L":    1.0,
	"1.5L":  1.5,
}

// Lines are the production lines a run can be scheduled on.
var Lines = []string{"1라인", "2라인", "3라인", "다목적 라인"}

type ingredient struct {
	name     string
	unit     string
	perLiter float64
	decimals int
	stock    string
}

var ingredients = []ingredient{
	{"정제수", "L", 0.85, 1, "충분"},
	{"설탕", "kg", 0.08, 2, "충분"},
	{"구연산", "kg", 0.003, 3, "부족"},
	{"향료", "kg", 0.002, 3, "충분"},
}

var packaging = []struct {
	name  string
	stock string
}{
	{"용기", "충분"},
	{"캡", "확인 필요"},
	{"라벨", "충분"},
}

var schedule = []models.ScheduleStep{
	{Step: "원료 입고 확인", Owner: "원료팀", Status: "완료"},
	{Step: "설비 세팅 & CIP", Owner: "생산팀", Status: "완료"},
	{Step: "시험 생산", Owner: "QC팀", Status: "진행 중"},
	{Step: "본 생산", Owner: "생산팀", Status: "대기"},
	{Step: "품질 검사", Owner: "QC팀", Status: "대기"},
	{Step: "출하", Owner: "물류팀", Status: "대기"},
}

// Plan computes the material requirements and daily output of a run.
func Plan(req models.ProductionPlanRequest) (models.ProductionPlan, error) {
	const op = "production.Plan"
	if req.Quantity < 0 {
		return models.ProductionPlan{}, apperr.Validation(op, "quantity must not be negative")
	}

	days := 1
	if req.StartDate != "" && req.EndDate != "" {
		start, err := utils.ParseDate(req.StartDate)
		if err != nil {
			return models.ProductionPlan{}, apperr.Validation(op, fmt.Sprintf("invalid startDate %q", req.StartDate))
		}
		end, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return models.ProductionPlan{}, apperr.Validation(op, fmt.Sprintf("invalid endDate %q", req.EndDate))
		}
		if d := int(end.Sub(start).Hours() / 24); d > 1 {
			days = d
		}
	}

	litres, ok := Units[req.Unit]
	if !ok {
		litres = DefaultUnitLiters
	}
	total := float64(req.Quantity) * litres

	materials := make([]models.MaterialRequirement, 0, len(ingredients)+len(packaging))
	for _, in := range ingredients {
		materials = append(materials, models.MaterialRequirement{
			Material: in.name,
			Unit:     in.unit,
			Amount:   round(total*in.perLiter, in.decimals),
			Stock:    in.stock,
		})
	}
	for _, p := range packaging {
		materials = append(materials, models.MaterialRequirement{
			Material: p.name,
			Unit:     "개",
			Amount:   float64(req.Quantity),
			Stock:    p.stock,
		})
	}

	steps := make([]models.ScheduleStep, len(schedule))
	copy(steps, schedule)

	return models.ProductionPlan{
		Product:      productName(req.Brand, req.Flavor),
		Line:         req.Line,
		Quantity:     req.Quantity,
		TotalLiters:  total,
		Days:         days,
		DailyAverage: req.Quantity / days,
		Materials:    materials,
		Schedule:     steps,
	}, nil
}

func productName(brand, flavor string) string {
	name := strings.TrimSpace(brand + " " + flavor)
	if name == "" {
		return "미입력"
	}
	return name
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
