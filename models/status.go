package models

// ProjectStatus is the lifecycle state of a posted project.
type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectClosed     ProjectStatus = "closed"
)

// CanTransitionTo reports whether the project state machine allows
// moving from s to next. open and closed are interchangeable while no
// bid has been accepted; in_progress and completed are one-way.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	switch s {
	case ProjectOpen:
		return next == ProjectInProgress || next == ProjectClosed
	case ProjectClosed:
		return next == ProjectOpen
	case ProjectInProgress:
		return next == ProjectCompleted || next == ProjectOpen
	default:
		return false
	}
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectClosed:
		return true
	}
	return false
}

// BidStatus is the lifecycle state of a contractor's bid.
type BidStatus string

const (
	BidPending     BidStatus = "pending"
	BidShortlisted BidStatus = "shortlisted"
	BidAccepted    BidStatus = "accepted"
	BidRejected    BidStatus = "rejected"
)

// CanTransitionTo reports whether the bid state machine allows moving
// from s to next. rejected is terminal; an accepted bid may still be
// rejected, which models withdrawal.
func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	switch s {
	case BidPending:
		return next == BidShortlisted || next == BidAccepted || next == BidRejected
	case BidShortlisted:
		return next == BidAccepted || next == BidRejected
	case BidAccepted:
		return next == BidRejected
	default:
		return false
	}
}

func (s BidStatus) Valid() bool {
	switch s {
	case BidPending, BidShortlisted, BidAccepted, BidRejected:
		return true
	}
	return false
}

// StatusColor maps a project or bid status string to the badge color
// the frontend renders it with.
func StatusColor(status string) string {
	switch status {
	case string(ProjectOpen), string(BidAccepted):
		return "green"
	case string(ProjectInProgress), string(BidShortlisted):
		return "blue"
	case string(ProjectCompleted):
		return "gray"
	case string(ProjectClosed), string(BidRejected):
		return "red"
	default:
		return "yellow"
	}
}
