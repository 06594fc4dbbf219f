package models

import (
	"strings"
	"time"
)

type Project struct {
	ProjectID            string        `bson:"projectid" json:"projectid"`
	Title                string        `bson:"title" json:"title"`
	Description          string        `bson:"description" json:"description"`
	Category             []string      `bson:"category,omitempty" json:"category,omitempty"`
	Budget               float64       `bson:"budget" json:"budget"`
	BudgetMax            float64       `bson:"budgetMax,omitempty" json:"budgetMax,omitempty"`
	Location             string        `bson:"location" json:"location"`
	StartDate            string        `bson:"startDate" json:"startDate"`
	ExpectedDuration     string        `bson:"expectedDuration,omitempty" json:"expectedDuration,omitempty"`
	PostedBy             string        `bson:"postedBy" json:"postedBy"`
	Status               ProjectStatus `bson:"status" json:"status"`
	AcceptedContractorID string        `bson:"acceptedContractorId,omitempty" json:"acceptedContractorId,omitempty"`
	AcceptedBidID        string        `bson:"acceptedBidId,omitempty" json:"acceptedBidId,omitempty"`
	CreatedAt            time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ProjectPatch carries the owner-editable fields. Status, postedBy and
// the accepted references are never patched directly.
type ProjectPatch struct {
	Title            *string  `json:"title,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Category         []string `json:"category,omitempty"`
	Budget           *float64 `json:"budget,omitempty"`
	BudgetMax        *float64 `json:"budgetMax,omitempty"`
	Location         *string  `json:"location,omitempty"`
	StartDate        *string  `json:"startDate,omitempty"`
	ExpectedDuration *string  `json:"expectedDuration,omitempty"`
}

// Validate checks the creation invariants: required text fields
// non-empty, budget positive, budgetMax (when set) at least budget.
func (p *Project) Validate() string {
	if strings.TrimSpace(p.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		return "description is required"
	}
	if strings.TrimSpace(p.Location) == "" {
		return "location is required"
	}
	if strings.TrimSpace(p.StartDate) == "" {
		return "startDate is required"
	}
	if p.Budget <= 0 {
		return "budget must be a positive amount"
	}
	if p.BudgetMax != 0 && p.BudgetMax < p.Budget {
		return "budgetMax cannot be below budget"
	}
	return ""
}
