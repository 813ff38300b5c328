package models

// RiskItem is one entry of the process-step risk checklist.
type RiskItem struct {
	Step   string `json:"step"`
	Item   string `json:"item"`
	Grade  string `json:"grade"` // high, medium or low
	Action string `json:"action"`
}

// RiskCounts counts risk items per grade.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// ProductionPlanRequest is the production plan form.
type ProductionPlanRequest struct {
	Category  string `json:"category"`
	Flavor    string `json:"flavor"`
	Brand     string `json:"brand"`
	Line      string `json:"line"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
}

// MaterialRequirement is one raw or packaging material needed for a run.
type MaterialRequirement struct {
	Material string  `json:"material"`
	Unit     string  `json:"unit"`
	Amount   float64 `json:"amount"`
	Stock    string  `json:"stock"`
}

// ScheduleStep is one row of the production schedule.
type ScheduleStep struct {
	Step   string `json:"step"`
	Owner  string `json:"owner"`
	Status string `json:"status"`
}

// ProductionPlan is the computed production plan.
type ProductionPlan struct {
	Product      string                `json:"product"`
	Line         string                `json:"line"`
	Quantity     int                   `json:"quantity"`
	TotalLiters  float64               `json:"totalLiters"`
	Days         int                   `json:"days"`
	DailyAverage int                   `json:"dailyAverage"`
	Materials    []MaterialRequirement `json:"materials"`
	Schedule     []ScheduleStep        `json:"schedule"`
}

// LibraryItem is one document of the reference library.
type LibraryItem struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	RegisteredAt string `json:"registeredAt"`
	Owner        string `json:"owner"`
	Summary      string `json:"summary,omitempty"`
}

// LibraryCategorySummary counts documents per library category.
type LibraryCategorySummary struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Percent  int    `json:"percent"`
}
