package domain

import "time"

// Organization is the reporting entity. Its profile fields come from the
// onboarding form and feed report headers and materiality context.
type Organization struct {
	ID            string
	Name          string
	Sector        string
	Country       string
	EmployeeCount int
	ReportingYear int // First CSRD reporting year
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
