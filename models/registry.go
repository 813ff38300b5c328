package models

import "time"

// RegistryQuery selects a 1-based record range with optional field filters.
type RegistryQuery struct {
	Start        int    `json:"start"`
	End          int    `json:"end"`
	BusinessName string `json:"businessName"`
	ProductName  string `json:"productName"`
	ReportNumber string `json:"reportNumber"`
}

// RegistryRecord is one normalized product manufacturing report.
type RegistryRecord struct {
	Index            int               `json:"index"`
	BusinessName     string            `json:"businessName"`
	ProductName      string            `json:"productName"`
	ReportNumber     string            `json:"reportNumber"`
	ReportDateRaw    string            `json:"reportDateRaw"`
	ReportDate       *time.Time        `json:"reportDate"`
	ProductType      string            `json:"productType"`
	ShelfLife        string            `json:"shelfLife"`
	ProductionStatus string            `json:"productionStatus"`
	LicenseNumber    string            `json:"licenseNumber,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// RegistryResult is one fetched range of records.
type RegistryResult struct {
	Records    []RegistryRecord `json:"records"`
	TotalCount int              `json:"totalCount"`
}
