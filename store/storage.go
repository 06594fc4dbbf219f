package store

import (
	"context"
	"time"

	"mistri/models"
)

// ProjectFilter narrows ListProjects. Zero value lists everything open
// to browsing.
type ProjectFilter struct {
	Status   models.ProjectStatus
	Category string
	Location string
	Limit    int64
}

// Storage is the entity-store boundary the project and bid workflows
// write through. The Mongo implementation is the production binding;
// tests substitute a mock.
type Storage interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	UpdateProjectFields(ctx context.Context, projectID string, fields map[string]any) error
	DeleteProject(ctx context.Context, projectID string) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	ListUserProjects(ctx context.Context, uid string) ([]models.Project, error)

	// ClaimAcceptance conditionally moves an open project with no
	// accepted bid to in_progress, recording the winning bid. Returns
	// ErrNotClaimed when another bid already won or the project is not
	// open.
	ClaimAcceptance(ctx context.Context, projectID, bidID, contractorID string, at time.Time) error
	// ReleaseAcceptance reverts a project to open, clearing the
	// accepted references, but only while bidID is still the accepted
	// bid.
	ReleaseAcceptance(ctx context.Context, projectID, bidID string, at time.Time) error

	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, bidID string) (*models.Bid, error)
	UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus, at time.Time) error
	DeleteBid(ctx context.Context, bidID string) error
	ListBidsForProject(ctx context.Context, projectID string) ([]models.Bid, error)
	ListContractorBids(ctx context.Context, contractorID string) ([]models.Bid, error)
	CountBidsForProject(ctx context.Context, projectID string) (int64, error)

	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUserFields(ctx context.Context, uid string, fields map[string]any) error
}
