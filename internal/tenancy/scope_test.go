package tenancy_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/hugh/go-rental/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_Apply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)

	testutil.CreateTestOwner(t, db, alice.ID, "A1")
	testutil.CreateTestOwner(t, db, alice.ID, "A2")
	testutil.CreateTestOwner(t, db, bob.ID, "B1")

	count := func(s tenancy.Scope) int64 {
		var n int64
		require.NoError(t, db.Model(&models.Owner{}).Scopes(s.Apply).Count(&n).Error)
		return n
	}

	assert.Equal(t, int64(2), count(tenancy.ForUser(alice.ID, false)))
	assert.Equal(t, int64(1), count(tenancy.ForUser(bob.ID, false)))
	assert.Equal(t, int64(3), count(tenancy.ForUser(alice.ID, true)))
	assert.Equal(t, int64(0), count(tenancy.Scope{}), "zero scope matches nothing")
	assert.Equal(t, int64(0), count(tenancy.Scope{IsAdmin: true}), "admin flag without user matches nothing")
}

func TestContextRoundTrip(t *testing.T) {
	assert.False(t, tenancy.FromContext(context.Background()).Valid())

	s := tenancy.ForUser(uuid.New(), true)
	ctx := tenancy.WithScope(context.Background(), s)
	assert.Equal(t, s, tenancy.FromContext(ctx))
	assert.Equal(t, s.UserID, tenancy.FromContext(ctx).Owner())
}
