package projects

import (
	"context"
	"time"

	"mistri/errinfo"
	"mistri/models"
	"mistri/store"
	"mistri/utils"
)

// Workflow owns the project lifecycle: open → in_progress → completed,
// with open ⇄ closed while no bid has been accepted. The acting user is
// always passed explicitly; nothing is read from ambient session state.
type Workflow struct {
	Store store.Storage
}

func NewWorkflow(s store.Storage) *Workflow {
	return &Workflow{Store: s}
}

// Create validates and persists a new project owned by actor, in
// status open.
func (wf *Workflow) Create(ctx context.Context, actor string, p *models.Project) (*models.Project, error) {
	if actor == "" {
		return nil, errinfo.Authorizationf("sign in to post a project")
	}
	if reason := p.Validate(); reason != "" {
		return nil, errinfo.Validationf("%s", reason)
	}

	now := time.Now()
	p.ProjectID = "p-" + utils.GenerateRandomString(12)
	p.PostedBy = actor
	p.Status = models.ProjectOpen
	p.AcceptedBidID = ""
	p.AcceptedContractorID = ""
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := wf.Store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Edit applies an owner's patch to the mutable fields. Status,
// postedBy and the accepted references are not editable here.
func (wf *Workflow) Edit(ctx context.Context, actor, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	p, err := wf.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy != actor {
		return nil, errinfo.Authorizationf("only the project owner can edit it")
	}

	fields := map[string]any{}
	if patch.Title != nil {
		p.Title = *patch.Title
		fields["title"] = p.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
		fields["description"] = p.Description
	}
	if patch.Category != nil {
		p.Category = patch.Category
		fields["category"] = p.Category
	}
	if patch.Budget != nil {
		p.Budget = *patch.Budget
		fields["budget"] = p.Budget
	}
	if patch.BudgetMax != nil {
		p.BudgetMax = *patch.BudgetMax
		fields["budgetMax"] = p.BudgetMax
	}
	if patch.Location != nil {
		p.Location = *patch.Location
		fields["location"] = p.Location
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
		fields["startDate"] = p.StartDate
	}
	if patch.ExpectedDuration != nil {
		p.ExpectedDuration = *patch.ExpectedDuration
		fields["expectedDuration"] = p.ExpectedDuration
	}
	if len(fields) == 0 {
		return p, nil
	}

	// The merged document must still satisfy the creation invariants.
	if reason := p.Validate(); reason != "" {
		return nil, errinfo.Validationf("%s", reason)
	}

	p.UpdatedAt = time.Now()
	fields["updatedAt"] = p.UpdatedAt
	if err := wf.Store.UpdateProjectFields(ctx, projectID, fields); err != nil {
		return nil, err
	}
	return p, nil
}

// Close moves an open project to closed.
func (wf *Workflow) Close(ctx context.Context, actor, projectID string) (*models.Project, error) {
	return wf.setStatus(ctx, actor, projectID, models.ProjectOpen, models.ProjectClosed)
}

// Reopen moves a closed project back to open.
func (wf *Workflow) Reopen(ctx context.Context, actor, projectID string) (*models.Project, error) {
	return wf.setStatus(ctx, actor, projectID, models.ProjectClosed, models.ProjectOpen)
}

func (wf *Workflow) setStatus(ctx context.Context, actor, projectID string, from, to models.ProjectStatus) (*models.Project, error) {
	p, err := wf.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy != actor {
		return nil, errinfo.Authorizationf("%s", errinfo.MsgNoPermission)
	}
	if p.Status != from {
		return nil, errinfo.InvalidTransitionf("project is %s, cannot move to %s", p.Status, to)
	}

	p.Status = to
	p.UpdatedAt = time.Now()
	err = wf.Store.UpdateProjectFields(ctx, projectID, map[string]any{
		"status":    to,
		"updatedAt": p.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MarkCompleted finishes an in_progress project. Allowed for the owner
// and for the contractor whose bid was accepted.
func (wf *Workflow) MarkCompleted(ctx context.Context, actor, projectID string) (*models.Project, error) {
	p, err := wf.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor != p.PostedBy && actor != p.AcceptedContractorID {
		return nil, errinfo.Authorizationf("%s", errinfo.MsgNoPermission)
	}
	if p.Status != models.ProjectInProgress {
		return nil, errinfo.InvalidTransitionf("project is %s, only in_progress projects can be completed", p.Status)
	}

	p.Status = models.ProjectCompleted
	p.UpdatedAt = time.Now()
	err = wf.Store.UpdateProjectFields(ctx, projectID, map[string]any{
		"status":    models.ProjectCompleted,
		"updatedAt": p.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project. Deletion is blocked while bids still
// reference the project so no orphaned bids are left behind.
func (wf *Workflow) Delete(ctx context.Context, actor, projectID string) error {
	p, err := wf.Store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if p.PostedBy != actor {
		return errinfo.Authorizationf("only the project owner can delete it")
	}
	n, err := wf.Store.CountBidsForProject(ctx, projectID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errinfo.InvalidTransitionf("project has %d bids and cannot be deleted", n)
	}
	return wf.Store.DeleteProject(ctx, projectID)
}
