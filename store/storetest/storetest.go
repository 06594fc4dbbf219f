// Package storetest provides an in-memory Storage for workflow tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"mistri/errinfo"
	"mistri/models"
	"mistri/store"
)

// Fake implements store.Storage in memory. The Err fields let tests
// inject failures on specific writes.
type Fake struct {
	mu       sync.Mutex
	Projects map[string]*models.Project
	Bids     map[string]*models.Bid
	Users    map[string]*models.User

	CreateProjectErr   error
	UpdateProjectErr   error
	CreateBidErr       error
	UpdateBidStatusErr error
	ClaimErr           error
	ReleaseErr         error
}

var _ store.Storage = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Projects: make(map[string]*models.Project),
		Bids:     make(map[string]*models.Bid),
		Users:    make(map[string]*models.User),
	}
}

// SeedUser registers a user and returns its id.
func (f *Fake) SeedUser(uid, userType string) *models.User {
	u := &models.User{UserID: uid, Username: uid, UserType: userType}
	f.Users[uid] = u
	return u
}

// SeedProject stores a copy of p.
func (f *Fake) SeedProject(p models.Project) *models.Project {
	cp := p
	f.Projects[p.ProjectID] = &cp
	return &cp
}

// SeedBid stores a copy of b.
func (f *Fake) SeedBid(b models.Bid) *models.Bid {
	cp := b
	f.Bids[b.BidID] = &cp
	return &cp
}

func (f *Fake) CreateProject(_ context.Context, p *models.Project) error {
	if f.CreateProjectErr != nil {
		return f.CreateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.Projects[p.ProjectID] = &cp
	return nil
}

func (f *Fake) GetProject(_ context.Context, projectID string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Projects[projectID]
	if !ok {
		return nil, errinfo.NotFoundf("%s", errinfo.MsgProjectNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *Fake) UpdateProjectFields(_ context.Context, projectID string, fields map[string]any) error {
	if f.UpdateProjectErr != nil {
		return f.UpdateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Projects[projectID]
	if !ok {
		return errinfo.NotFoundf("%s", errinfo.MsgProjectNotFound)
	}
	applyProjectFields(p, fields)
	return nil
}

func (f *Fake) DeleteProject(_ context.Context, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Projects[projectID]; !ok {
		return errinfo.NotFoundf("%s", errinfo.MsgProjectNotFound)
	}
	delete(f.Projects, projectID)
	return nil
}

func (f *Fake) ListProjects(_ context.Context, filter store.ProjectFilter) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.Projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Location != "" && p.Location != filter.Location {
			continue
		}
		out = append(out, *p)
	}
	sortProjectsNewestFirst(out)
	if out == nil {
		out = []models.Project{}
	}
	return out, nil
}

func (f *Fake) ListUserProjects(_ context.Context, uid string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.Projects {
		if p.PostedBy == uid {
			out = append(out, *p)
		}
	}
	sortProjectsNewestFirst(out)
	if out == nil {
		out = []models.Project{}
	}
	return out, nil
}

func (f *Fake) ClaimAcceptance(_ context.Context, projectID, bidID, contractorID string, at time.Time) error {
	if f.ClaimErr != nil {
		return f.ClaimErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Projects[projectID]
	if !ok || p.Status != models.ProjectOpen || p.AcceptedBidID != "" {
		return store.ErrNotClaimed
	}
	p.Status = models.ProjectInProgress
	p.AcceptedBidID = bidID
	p.AcceptedContractorID = contractorID
	p.UpdatedAt = at
	return nil
}

func (f *Fake) ReleaseAcceptance(_ context.Context, projectID, bidID string, at time.Time) error {
	if f.ReleaseErr != nil {
		return f.ReleaseErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Projects[projectID]
	if !ok || p.AcceptedBidID != bidID {
		return nil
	}
	p.Status = models.ProjectOpen
	p.AcceptedBidID = ""
	p.AcceptedContractorID = ""
	p.UpdatedAt = at
	return nil
}

func (f *Fake) CreateBid(_ context.Context, b *models.Bid) error {
	if f.CreateBidErr != nil {
		return f.CreateBidErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.Bids[b.BidID] = &cp
	return nil
}

func (f *Fake) GetBid(_ context.Context, bidID string) (*models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.Bids[bidID]
	if !ok {
		return nil, errinfo.NotFoundf("%s", errinfo.MsgBidNotFound)
	}
	cp := *b
	return &cp, nil
}

func (f *Fake) UpdateBidStatus(_ context.Context, bidID string, status models.BidStatus, at time.Time) error {
	if f.UpdateBidStatusErr != nil {
		return f.UpdateBidStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.Bids[bidID]
	if !ok {
		return errinfo.NotFoundf("%s", errinfo.MsgBidNotFound)
	}
	b.Status = status
	b.UpdatedAt = at
	return nil
}

func (f *Fake) DeleteBid(_ context.Context, bidID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Bids[bidID]; !ok {
		return errinfo.NotFoundf("%s", errinfo.MsgBidNotFound)
	}
	delete(f.Bids, bidID)
	return nil
}

func (f *Fake) ListBidsForProject(_ context.Context, projectID string) ([]models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Bid
	for _, b := range f.Bids {
		if b.ProjectID == projectID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if out == nil {
		out = []models.Bid{}
	}
	return out, nil
}

func (f *Fake) ListContractorBids(_ context.Context, contractorID string) ([]models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Bid
	for _, b := range f.Bids {
		if b.ContractorID == contractorID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if out == nil {
		out = []models.Bid{}
	}
	return out, nil
}

func (f *Fake) CountBidsForProject(_ context.Context, projectID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.Bids {
		if b.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (f *Fake) GetUser(_ context.Context, uid string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[uid]
	if !ok {
		return nil, errinfo.NotFoundf("%s", errinfo.MsgWrongUser)
	}
	cp := *u
	return &cp, nil
}

func (f *Fake) UpdateUserFields(_ context.Context, uid string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[uid]
	if !ok {
		return errinfo.NotFoundf("%s", errinfo.MsgWrongUser)
	}
	applyUserFields(u, fields)
	return nil
}

func sortProjectsNewestFirst(ps []models.Project) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
}

func applyProjectFields(p *models.Project, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "category":
			p.Category = v.([]string)
		case "budget":
			p.Budget = v.(float64)
		case "budgetMax":
			p.BudgetMax = v.(float64)
		case "location":
			p.Location = v.(string)
		case "startDate":
			p.StartDate = v.(string)
		case "expectedDuration":
			p.ExpectedDuration = v.(string)
		case "status":
			p.Status = v.(models.ProjectStatus)
		case "updatedAt":
			p.UpdatedAt = v.(time.Time)
		}
	}
}

func applyUserFields(u *models.User, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "fullName":
			u.FullName = v.(string)
		case "mobile":
			u.Mobile = v.(string)
		case "city":
			u.City = v.(string)
		case "companyName":
			u.CompanyName = v.(string)
		case "serviceCategory":
			u.ServiceCategory = v.(string)
		case "experience":
			u.Experience = v.(string)
		case "profileComplete":
			u.ProfileComplete = v.(bool)
		case "updated_at":
			u.UpdatedAt = v.(time.Time)
		}
	}
}
