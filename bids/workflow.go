package bids

import (
	"context"
	"errors"
	"time"

	"mistri/errinfo"
	"mistri/models"
	"mistri/store"
	"mistri/utils"
)

// Workflow owns the bid lifecycle: pending → shortlisted → accepted,
// with rejection allowed from every non-rejected state. Accepting a bid
// is the one operation coupled to the project lifecycle; see Accept.
type Workflow struct {
	Store store.Storage
}

func NewWorkflow(s store.Storage) *Workflow {
	return &Workflow{Store: s}
}

// Submit creates a pending bid. Only contractors may bid, never on
// their own project, and only while the project is accepting bids.
// Bidding stays open while a project is in_progress so the owner can
// keep comparing offers before close-out.
func (wf *Workflow) Submit(ctx context.Context, actor, projectID string, b *models.Bid) (*models.Bid, error) {
	user, err := wf.Store.GetUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !user.IsContractor() {
		return nil, errinfo.Authorizationf("only contractors can submit bids")
	}

	p, err := wf.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy == actor {
		return nil, errinfo.Authorizationf("you cannot bid on your own project")
	}
	if p.Status != models.ProjectOpen && p.Status != models.ProjectInProgress {
		return nil, errinfo.InvalidTransitionf("project is %s and not accepting bids", p.Status)
	}
	if reason := b.Validate(); reason != "" {
		return nil, errinfo.Validationf("%s", reason)
	}

	now := time.Now()
	b.BidID = "b-" + utils.GenerateRandomString(12)
	b.ProjectID = projectID
	b.ContractorID = actor
	b.Status = models.BidPending
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := wf.Store.CreateBid(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Accept marks a bid as the winning one and moves its project to
// in_progress. The two writes cannot share a transaction, so the
// project side goes first through a conditional claim keyed on the
// project still being open with no accepted bid; the bid write follows
// and is compensated by releasing the claim if it fails. When that
// compensation itself fails the claim stays standing, and a retry
// resumes with the bid write alone. Re-accepting the already-accepted
// bid is a no-op.
func (wf *Workflow) Accept(ctx context.Context, actor, bidID string) (*models.Bid, error) {
	b, err := wf.Store.GetBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	p, err := wf.Store.GetProject(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy != actor {
		return nil, errinfo.Authorizationf("only the project owner can accept bids")
	}

	if b.Status == models.BidAccepted && p.AcceptedBidID == b.BidID {
		return b, nil
	}
	if !b.Status.CanTransitionTo(models.BidAccepted) {
		return nil, errinfo.InvalidTransitionf("bid is %s and cannot be accepted", b.Status)
	}

	// A prior accept may have half-applied: the claim landed but the
	// bid write and its compensating release both failed. The project
	// already points at this bid, so resume with the bid write alone.
	claimHeld := p.Status == models.ProjectInProgress && p.AcceptedBidID == b.BidID

	now := time.Now()
	if !claimHeld {
		if p.Status != models.ProjectOpen || p.AcceptedBidID != "" {
			return nil, errinfo.InvalidTransitionf("project is %s and cannot take an accepted bid", p.Status)
		}

		err = wf.Store.ClaimAcceptance(ctx, p.ProjectID, b.BidID, b.ContractorID, now)
		if errors.Is(err, store.ErrNotClaimed) {
			// Lost the race: another bid won, or the owner closed the
			// project between our read and the write.
			return nil, errinfo.InvalidTransitionf("project already has an accepted bid or is no longer open")
		}
		if err != nil {
			return nil, err
		}
	}

	if err := wf.Store.UpdateBidStatus(ctx, b.BidID, models.BidAccepted, now); err != nil {
		if relErr := wf.Store.ReleaseAcceptance(ctx, p.ProjectID, b.BidID, now); relErr != nil {
			return nil, errinfo.PartialFailuref("bid acceptance failed and the project could not be reverted; please retry")
		}
		return nil, err
	}

	b.Status = models.BidAccepted
	b.UpdatedAt = now
	return b, nil
}

// Reject declines a bid. Rejecting the currently accepted bid models
// withdrawal and reverts the project to open with no accepted bid.
func (wf *Workflow) Reject(ctx context.Context, actor, bidID string) (*models.Bid, error) {
	b, err := wf.Store.GetBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	p, err := wf.Store.GetProject(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy != actor {
		return nil, errinfo.Authorizationf("only the project owner can reject bids")
	}
	return wf.reject(ctx, p, b)
}

// Withdraw lets a contractor pull their own bid. It runs the same
// transition as an owner rejection, including the project revert when
// the bid had been accepted.
func (wf *Workflow) Withdraw(ctx context.Context, actor, bidID string) (*models.Bid, error) {
	b, err := wf.Store.GetBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if b.ContractorID != actor {
		return nil, errinfo.Authorizationf("only the bidding contractor can withdraw this bid")
	}
	p, err := wf.Store.GetProject(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	return wf.reject(ctx, p, b)
}

func (wf *Workflow) reject(ctx context.Context, p *models.Project, b *models.Bid) (*models.Bid, error) {
	if !b.Status.CanTransitionTo(models.BidRejected) {
		return nil, errinfo.InvalidTransitionf("bid is already %s", b.Status)
	}

	now := time.Now()
	// The project can point at this bid even when the accepted status
	// write never landed; release in that case too so the project
	// never references a rejected bid.
	wasAccepted := p.AcceptedBidID == b.BidID

	if wasAccepted {
		if err := wf.Store.ReleaseAcceptance(ctx, p.ProjectID, b.BidID, now); err != nil {
			return nil, err
		}
	}

	if err := wf.Store.UpdateBidStatus(ctx, b.BidID, models.BidRejected, now); err != nil {
		if wasAccepted {
			// Put the claim back so the project does not point at a
			// bid whose status write never landed.
			if claimErr := wf.Store.ClaimAcceptance(ctx, p.ProjectID, b.BidID, b.ContractorID, now); claimErr != nil {
				return nil, errinfo.PartialFailuref("bid rejection failed and the project could not be restored; please retry")
			}
		}
		return nil, err
	}

	b.Status = models.BidRejected
	b.UpdatedAt = now
	return b, nil
}

// Shortlist flags a pending bid for closer review.
func (wf *Workflow) Shortlist(ctx context.Context, actor, bidID string) (*models.Bid, error) {
	b, err := wf.Store.GetBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	p, err := wf.Store.GetProject(ctx, b.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy != actor {
		return nil, errinfo.Authorizationf("only the project owner can shortlist bids")
	}
	if b.Status != models.BidPending {
		return nil, errinfo.InvalidTransitionf("bid is %s, only pending bids can be shortlisted", b.Status)
	}

	now := time.Now()
	if err := wf.Store.UpdateBidStatus(ctx, b.BidID, models.BidShortlisted, now); err != nil {
		return nil, err
	}
	b.Status = models.BidShortlisted
	b.UpdatedAt = now
	return b, nil
}

// ListForProject returns a project's bids, newest first, to its owner.
func (wf *Workflow) ListForProject(ctx context.Context, actor, projectID string) ([]models.Bid, error) {
	p, err := wf.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.PostedBy != actor {
		return nil, errinfo.Authorizationf("only the project owner can view its bids")
	}
	return wf.Store.ListBidsForProject(ctx, projectID)
}
