package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mistri/errinfo"
	"mistri/models"
	"mistri/profile"
	"mistri/store/storetest"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfileCompletesCustomer(t *testing.T) {
	fake := storetest.New()
	fake.SeedUser("u1", models.UserTypeCustomer)
	h := profile.NewHandlers(fake)
	ctx := context.Background()

	u, err := h.Update(ctx, "u1", profile.Patch{
		FullName: strPtr("Asha Verma"),
		Mobile:   strPtr("9812345670"),
	})
	require.NoError(t, err)
	require.False(t, u.ProfileComplete)

	u, err = h.Update(ctx, "u1", profile.Patch{City: strPtr("Indore")})
	require.NoError(t, err)
	require.True(t, u.ProfileComplete)

	stored, _ := fake.GetUser(ctx, "u1")
	require.True(t, stored.ProfileComplete)
}

func TestUpdateProfileContractorNeedsCompany(t *testing.T) {
	fake := storetest.New()
	fake.SeedUser("c1", models.UserTypeContractor)
	h := profile.NewHandlers(fake)
	ctx := context.Background()

	u, err := h.Update(ctx, "c1", profile.Patch{
		FullName: strPtr("Ravi Kumar"),
		Mobile:   strPtr("9800011122"),
		City:     strPtr("Jaipur"),
	})
	require.NoError(t, err)
	require.False(t, u.ProfileComplete)

	u, err = h.Update(ctx, "c1", profile.Patch{
		CompanyName:     strPtr("Kumar Constructions"),
		ServiceCategory: strPtr("masonry"),
	})
	require.NoError(t, err)
	require.True(t, u.ProfileComplete)
}

func TestUpdateProfileCanRegress(t *testing.T) {
	fake := storetest.New()
	u := fake.SeedUser("u1", models.UserTypeCustomer)
	u.FullName = "Asha Verma"
	u.Mobile = "9812345670"
	u.City = "Indore"
	u.ProfileComplete = true

	h := profile.NewHandlers(fake)
	got, err := h.Update(context.Background(), "u1", profile.Patch{Mobile: strPtr("")})
	require.NoError(t, err)
	require.False(t, got.ProfileComplete)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	fake := storetest.New()
	h := profile.NewHandlers(fake)
	_, err := h.Update(context.Background(), "ghost", profile.Patch{City: strPtr("Pune")})
	require.True(t, errinfo.IsKind(err, errinfo.KindNotFound))
}
