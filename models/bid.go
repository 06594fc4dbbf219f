package models

import (
	"strings"
	"time"
)

// MinBidMessageLen is the shortest pitch message a contractor may submit.
const MinBidMessageLen = 10

type Bid struct {
	BidID        string    `bson:"bidid" json:"bidid"`
	ProjectID    string    `bson:"projectId" json:"projectId"`
	ContractorID string    `bson:"contractorId" json:"contractorId"`
	PriceQuoted  float64   `bson:"priceQuoted" json:"priceQuoted"`
	Timeline     string    `bson:"timeline" json:"timeline"`
	Message      string    `bson:"message" json:"message"`
	Status       BidStatus `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the submission invariants.
func (b *Bid) Validate() string {
	if b.PriceQuoted <= 0 {
		return "priceQuoted must be a positive amount"
	}
	if strings.TrimSpace(b.Timeline) == "" {
		return "timeline is required"
	}
	if len(strings.TrimSpace(b.Message)) < MinBidMessageLen {
		return "message must be at least 10 characters"
	}
	return ""
}
