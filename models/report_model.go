package models

import "time"

// ReportKind tells archived reports apart.
type ReportKind string

const (
	ReportKindStrategy    ReportKind = "strategy"
	ReportKindDevelopment ReportKind = "development"
)

// Report is a generated report, as archived.
type Report struct {
	ID        string     `json:"id"`
	Kind      ReportKind `json:"kind"`
	Title     string     `json:"title"`
	Keyword   string     `json:"keyword"`
	Model     string     `json:"model"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ReportListItem is a row of the recent reports table.
type ReportListItem struct {
	ID        string `json:"id,omitempty"`
	Product   string `json:"product"`
	Version   string `json:"version"`
	Manager   string `json:"manager"`
	CreatedAt string `json:"createdAt"`
	Status    string `json:"status"`
}

// DevReportForm is the new-product development report form.
type DevReportForm struct {
	Category string `json:"category"`
	Flavor   string `json:"flavor"`
	Brand    string `json:"brand"`
	Manager  string `json:"manager"`
	Date     string `json:"date"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Concept  string `json:"concept"`
	Formula  string `json:"formula"`
	Sensory  string `json:"sensory"`
	Quality  string `json:"quality"`
	Issues   string `json:"issues"`
}

// ProductName is brand and flavor joined, or a placeholder when both are
// empty.
func (f DevReportForm) ProductName() string {
	name := f.Brand
	if f.Flavor != "" {
		if name != "" {
			name += " "
		}
		name += f.Flavor
	}
	if name == "" {
		return "미입력"
	}
	return name
}
