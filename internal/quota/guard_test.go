package quota_test

import (
	"testing"

	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/hugh/go-rental/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_DeniesAtLimit(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	testutil.SetPlanLimits(t, tc.DB, models.PlanBasic, 5, 20, 20)
	scope := tenancy.ForUser(tc.User.ID, false)

	for i := 0; i < 4; i++ {
		testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Owner")
	}
	res, err := tc.Guard.Check(ctx, scope, quota.KindOwners)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(4), res.Current)
	assert.Equal(t, 80, res.Percent)

	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Fifth")

	res, err = tc.Guard.Check(ctx, scope, quota.KindOwners)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(5), res.Current)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, models.PlanBasic, res.Plan)

	err = tc.Guard.Enforce(ctx, scope, quota.KindOwners)
	var exceeded *quota.ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, models.PlanBasic, exceeded.Plan)
	assert.Equal(t, 5, exceeded.Limit)
	assert.Equal(t, int64(5), exceeded.Current)
}

func TestGuard_AdminIsExempt(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	testutil.SetPlanLimits(t, tc.DB, models.PlanEnterprise, 1, 1, 1)
	for i := 0; i < 3; i++ {
		testutil.CreateTestOwner(t, tc.DB, tc.Admin.ID, "Owner")
	}

	res, err := tc.Guard.Check(ctx, tenancy.ForUser(tc.Admin.ID, true), quota.KindOwners)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.True(t, res.Unlimited)
	assert.Equal(t, quota.Unlimited, res.Limit)
	assert.NoError(t, tc.Guard.Enforce(ctx, tenancy.ForUser(tc.Admin.ID, true), quota.KindOwners))
}

func TestGuard_CountsOnlyOwnRows(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	testutil.SetPlanLimits(t, tc.DB, models.PlanBasic, 2, 20, 20)
	other, _ := tc.NewUser(t)
	for i := 0; i < 5; i++ {
		testutil.CreateTestOwner(t, tc.DB, other.ID, "Not mine")
	}

	res, err := tc.Guard.Check(ctx, tenancy.ForUser(tc.User.ID, false), quota.KindOwners)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(0), res.Current)
}

func TestGuard_UnknownPlanFallsBackToBasic(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	noPlan := testutil.CreateTestUser(t, tc.DB, func(u *models.User) { u.PlanID = nil })

	res, err := tc.Guard.Check(ctx, tenancy.ForUser(noPlan.ID, false), quota.KindTenants)
	require.NoError(t, err)
	assert.Equal(t, models.PlanBasic, res.Plan)
	assert.Equal(t, 20, res.Limit)
}

// The count and the insert are separate statements, so two creates racing at
// limit-1 both pass the check. This pins the documented best-effort
// behaviour; if the guard is ever made atomic this test must change.
func TestGuard_CheckThenInsertRace(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	testutil.SetPlanLimits(t, tc.DB, models.PlanBasic, 3, 20, 20)
	scope := tenancy.ForUser(tc.User.ID, false)
	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "One")
	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Two")

	// Both requests check before either inserts.
	require.NoError(t, tc.Guard.Enforce(ctx, scope, quota.KindOwners))
	require.NoError(t, tc.Guard.Enforce(ctx, scope, quota.KindOwners))

	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Request A")
	testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Request B")

	res, err := tc.Guard.Check(ctx, scope, quota.KindOwners)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Current, "limit overshot by the race")
	assert.Equal(t, 3, res.Limit)
	assert.False(t, res.Allowed)
	assert.Equal(t, 100, res.Percent)
}

func TestGuard_Usage(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	owner := testutil.CreateTestOwner(t, tc.DB, tc.User.ID, "Owner")
	testutil.CreateTestProperty(t, tc.DB, tc.User.ID, owner.ID)

	usage, err := tc.Guard.Usage(ctx, tenancy.ForUser(tc.User.ID, false))
	require.NoError(t, err)
	assert.Equal(t, models.PlanBasic, usage.Plan.ID)
	assert.Equal(t, int64(1), usage.Kinds[quota.KindOwners].Current)
	assert.Equal(t, 10, usage.Kinds[quota.KindOwners].Percent)
	assert.Equal(t, int64(1), usage.Kinds[quota.KindProperties].Current)
	assert.Equal(t, 5, usage.Kinds[quota.KindProperties].Percent)
	assert.Equal(t, int64(0), usage.Kinds[quota.KindTenants].Current)

	adminUsage, err := tc.Guard.Usage(ctx, tenancy.ForUser(tc.Admin.ID, true))
	require.NoError(t, err)
	assert.True(t, adminUsage.Kinds[quota.KindOwners].Unlimited)
}

func TestParseKind(t *testing.T) {
	k, err := quota.ParseKind("tenants")
	require.NoError(t, err)
	assert.Equal(t, quota.KindTenants, k)

	_, err = quota.ParseKind("receipts")
	assert.ErrorIs(t, err, quota.ErrUnknownKind)
}
