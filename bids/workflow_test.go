package bids_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mistri/bids"
	"mistri/errinfo"
	"mistri/models"
	"mistri/store/storetest"
)

func seedMarketplace(fake *storetest.Fake) {
	fake.SeedUser("owner1", models.UserTypeCustomer)
	fake.SeedUser("contractorA", models.UserTypeContractor)
	fake.SeedUser("contractorB", models.UserTypeContractor)
	fake.SeedProject(models.Project{
		ProjectID:   "p1",
		Title:       "House construction",
		Description: "1800 sq ft residential build",
		Budget:      500000,
		Location:    "Pune",
		StartDate:   "2026-10-01",
		PostedBy:    "owner1",
		Status:      models.ProjectOpen,
		CreatedAt:   time.Now(),
	})
}

func validBid() *models.Bid {
	return &models.Bid{
		PriceQuoted: 480000,
		Timeline:    "3 months",
		Message:     "Experienced team, 10 years in residential work",
	}
}

func TestSubmitBid(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, err := wf.Submit(ctx, "contractorA", "p1", validBid())
	require.NoError(t, err)
	require.Equal(t, models.BidPending, b.Status)
	require.Equal(t, "contractorA", b.ContractorID)
	require.Equal(t, "p1", b.ProjectID)
	require.Equal(t, b.CreatedAt, b.UpdatedAt)
}

func TestSubmitBidAuthorization(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	// Customers cannot bid.
	_, err := wf.Submit(ctx, "owner1", "p1", validBid())
	require.True(t, errinfo.IsKind(err, errinfo.KindAuthorization))

	// Owners cannot bid on their own project even as contractors.
	fake.SeedUser("ownerContractor", models.UserTypeContractor)
	fake.SeedProject(models.Project{
		ProjectID: "p2", PostedBy: "ownerContractor",
		Status: models.ProjectOpen,
	})
	_, err = wf.Submit(ctx, "ownerContractor", "p2", validBid())
	require.True(t, errinfo.IsKind(err, errinfo.KindAuthorization))
	require.Empty(t, fake.Bids)
}

func TestSubmitBidValidation(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*models.Bid)
	}{
		{"zero price", func(b *models.Bid) { b.PriceQuoted = 0 }},
		{"negative price", func(b *models.Bid) { b.PriceQuoted = -5 }},
		{"empty timeline", func(b *models.Bid) { b.Timeline = "  " }},
		{"short message", func(b *models.Bid) { b.Message = "too short" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBid()
			tc.mutate(b)
			_, err := wf.Submit(ctx, "contractorA", "p1", b)
			require.True(t, errinfo.IsKind(err, errinfo.KindValidation))
			require.Empty(t, fake.Bids)
		})
	}
}

func TestSubmitBidClosedProject(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	fake.Projects["p1"].Status = models.ProjectClosed
	_, err := wf.Submit(ctx, "contractorA", "p1", validBid())
	require.True(t, errinfo.IsKind(err, errinfo.KindInvalidTransition))
}

func TestAcceptBid(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, err := wf.Submit(ctx, "contractorA", "p1", validBid())
	require.NoError(t, err)

	accepted, err := wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidAccepted, accepted.Status)

	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectInProgress, p.Status)
	require.Equal(t, b.BidID, p.AcceptedBidID)
	require.Equal(t, "contractorA", p.AcceptedContractorID)
}

func TestAcceptBidIdempotent(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)

	// Retrying the same accept is a no-op, not a duplicate transition.
	again, err := wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidAccepted, again.Status)

	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, b.BidID, p.AcceptedBidID)
}

func TestAcceptBidNotOwner(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	_, err := wf.Accept(ctx, "contractorB", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindAuthorization))
}

func TestContinuedBiddingAfterAccept(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	bidA, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	_, err := wf.Accept(ctx, "owner1", bidA.BidID)
	require.NoError(t, err)

	// The project stays open to further bids while in_progress.
	bidB, err := wf.Submit(ctx, "contractorB", "p1", validBid())
	require.NoError(t, err)
	require.Equal(t, models.BidPending, bidB.Status)

	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectInProgress, p.Status)

	// But only one bid can ever hold accepted.
	_, err = wf.Accept(ctx, "owner1", bidB.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindInvalidTransition))

	stored, _ := fake.GetBid(ctx, bidB.BidID)
	require.Equal(t, models.BidPending, stored.Status)
}

func TestAcceptBidClosedProject(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	fake.Projects["p1"].Status = models.ProjectClosed

	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindInvalidTransition))

	stored, _ := fake.GetBid(ctx, b.BidID)
	require.Equal(t, models.BidPending, stored.Status)
}

func TestAcceptBidCompensatesOnBidWriteFailure(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())

	fake.UpdateBidStatusErr = errinfo.Unavailablef("write timed out")
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindUnavailable))

	// The claim must have been rolled back.
	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectOpen, p.Status)
	require.Empty(t, p.AcceptedBidID)

	// A retry after the store recovers succeeds.
	fake.UpdateBidStatusErr = nil
	_, err = wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)
}

func TestAcceptBidPartialFailure(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())

	fake.UpdateBidStatusErr = errinfo.Unavailablef("write timed out")
	fake.ReleaseErr = errinfo.Unavailablef("revert also failed")
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindPartialFailure))
}

func TestAcceptBidResumesAfterPartialFailure(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())

	fake.UpdateBidStatusErr = errinfo.Unavailablef("write timed out")
	fake.ReleaseErr = errinfo.Unavailablef("revert also failed")
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindPartialFailure))

	// The store is left half-applied: the project holds the claim but
	// the bid write never landed.
	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectInProgress, p.Status)
	require.Equal(t, b.BidID, p.AcceptedBidID)
	stored, _ := fake.GetBid(ctx, b.BidID)
	require.Equal(t, models.BidPending, stored.Status)

	// Once the store recovers, retrying finishes the acceptance.
	fake.UpdateBidStatusErr = nil
	fake.ReleaseErr = nil
	accepted, err := wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidAccepted, accepted.Status)

	stored, _ = fake.GetBid(ctx, b.BidID)
	require.Equal(t, models.BidAccepted, stored.Status)
	p, _ = fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectInProgress, p.Status)
	require.Equal(t, b.BidID, p.AcceptedBidID)
}

func TestRejectReleasesHalfAppliedAcceptance(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())

	fake.UpdateBidStatusErr = errinfo.Unavailablef("write timed out")
	fake.ReleaseErr = errinfo.Unavailablef("revert also failed")
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindPartialFailure))

	// Rejecting the bid the project points at must also release the
	// claim, even though the accepted status write never landed.
	fake.UpdateBidStatusErr = nil
	fake.ReleaseErr = nil
	rejected, err := wf.Reject(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidRejected, rejected.Status)

	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectOpen, p.Status)
	require.Empty(t, p.AcceptedBidID)
	require.Empty(t, p.AcceptedContractorID)
}

func TestRejectBid(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	rejected, err := wf.Reject(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidRejected, rejected.Status)

	// rejected is terminal.
	_, err = wf.Reject(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindInvalidTransition))
	_, err = wf.Shortlist(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindInvalidTransition))
}

func TestRejectAcceptedBidRevertsProject(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)

	rejected, err := wf.Reject(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidRejected, rejected.Status)

	// Withdrawal reopens the project with no accepted references.
	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectOpen, p.Status)
	require.Empty(t, p.AcceptedBidID)
	require.Empty(t, p.AcceptedContractorID)

	// Another bid can now be accepted.
	b2, _ := wf.Submit(ctx, "contractorB", "p1", validBid())
	_, err = wf.Accept(ctx, "owner1", b2.BidID)
	require.NoError(t, err)
}

func TestShortlistBid(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())

	shortlisted, err := wf.Shortlist(ctx, "owner1", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidShortlisted, shortlisted.Status)

	// Shortlisting twice is not a legal transition.
	_, err = wf.Shortlist(ctx, "owner1", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindInvalidTransition))

	// A shortlisted bid can still be accepted.
	_, err = wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)
}

func TestWithdrawBid(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())

	// Only the bidding contractor may withdraw.
	_, err := wf.Withdraw(ctx, "contractorB", b.BidID)
	require.True(t, errinfo.IsKind(err, errinfo.KindAuthorization))

	withdrawn, err := wf.Withdraw(ctx, "contractorA", b.BidID)
	require.NoError(t, err)
	require.Equal(t, models.BidRejected, withdrawn.Status)
}

func TestWithdrawAcceptedBidReopensProject(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	b, _ := wf.Submit(ctx, "contractorA", "p1", validBid())
	_, err := wf.Accept(ctx, "owner1", b.BidID)
	require.NoError(t, err)

	_, err = wf.Withdraw(ctx, "contractorA", b.BidID)
	require.NoError(t, err)

	p, _ := fake.GetProject(ctx, "p1")
	require.Equal(t, models.ProjectOpen, p.Status)
	require.Empty(t, p.AcceptedBidID)
}

func TestListForProjectNewestFirst(t *testing.T) {
	fake := storetest.New()
	seedMarketplace(fake)
	wf := bids.NewWorkflow(fake)
	ctx := context.Background()

	now := time.Now()
	fake.SeedBid(models.Bid{BidID: "old", ProjectID: "p1", ContractorID: "contractorA", Status: models.BidPending, CreatedAt: now.Add(-2 * time.Hour)})
	fake.SeedBid(models.Bid{BidID: "new", ProjectID: "p1", ContractorID: "contractorB", Status: models.BidPending, CreatedAt: now})

	list, err := wf.ListForProject(ctx, "owner1", "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].BidID)
	require.Equal(t, "old", list[1].BidID)

	// Only the owner may see a project's bids.
	_, err = wf.ListForProject(ctx, "contractorA", "p1")
	require.True(t, errinfo.IsKind(err, errinfo.KindAuthorization))
}
