package auth_test

import (
	"strings"
	"testing"

	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Login(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := tc.AuthService.Login(ctx, auth.LoginInput{Email: tc.User.Email, Password: testutil.TestPassword})
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, resp.User.ID)
		assert.NotNil(t, resp.User.LastLoginAt)

		claims, err := tc.JWTService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, claims.UserID)
		assert.False(t, claims.IsAdmin)
	})

	t.Run("email is case insensitive", func(t *testing.T) {
		_, err := tc.AuthService.Login(ctx, auth.LoginInput{Email: "  " + strings.ToUpper(tc.User.Email), Password: testutil.TestPassword})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := tc.AuthService.Login(ctx, auth.LoginInput{Email: tc.User.Email, Password: "wrong-password"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := tc.AuthService.Login(ctx, auth.LoginInput{Email: "nobody@example.com", Password: testutil.TestPassword})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive user with correct password", func(t *testing.T) {
		inactive := testutil.CreateTestUser(t, tc.DB, testutil.Inactive())
		_, err := tc.AuthService.Login(ctx, auth.LoginInput{Email: inactive.Email, Password: testutil.TestPassword})
		assert.ErrorIs(t, err, auth.ErrInactiveUser)
	})
}

func TestService_Register(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	user, err := tc.AuthService.Register(ctx, auth.RegisterInput{
		Email:              "Novo@Example.com",
		Password:           "password123",
		Name:               "Novo Usuário",
		MustChangePassword: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "novo@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.True(t, user.MustChangePassword)
	assert.Equal(t, models.PlanBasic, user.EffectivePlanID())
	assert.NoError(t, auth.VerifyPassword(user.PasswordHash, "password123"))

	_, err = tc.AuthService.Register(ctx, auth.RegisterInput{
		Email:    "NOVO@example.com",
		Password: "password123",
		Name:     "Duplicado",
	})
	assert.ErrorIs(t, err, auth.ErrUserExists)

	_, err = tc.AuthService.Register(ctx, auth.RegisterInput{
		Email:    "outro@example.com",
		Password: "password123",
		Name:     "Outro",
		PlanID:   "platinum",
	})
	assert.ErrorIs(t, err, auth.ErrPlanNotFound)
}

func TestService_ResolveSession(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("valid token", func(t *testing.T) {
		session, err := tc.AuthService.ResolveSession(ctx, tc.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, session.User.ID)
		assert.Equal(t, tc.User.ID, session.Claims.UserID)
	})

	t.Run("every failure is unauthenticated", func(t *testing.T) {
		expired := testutil.GenerateTestToken(t, auth.NewJWTService("test-secret-key-for-testing", -1), tc.User)
		for name, token := range map[string]string{
			"empty":        "",
			"malformed":    "abc.def.ghi",
			"expired":      expired,
			"other secret": testutil.GenerateTestToken(t, auth.NewJWTService("other", 0), tc.User),
		} {
			_, err := tc.AuthService.ResolveSession(ctx, token)
			assert.ErrorIs(t, err, auth.ErrUnauthenticated, name)
		}
	})

	t.Run("deactivation revokes a live token", func(t *testing.T) {
		user, token := tc.NewUser(t)

		_, err := tc.AuthService.ResolveSession(ctx, token)
		require.NoError(t, err)

		_, err = tc.AuthService.SetActive(ctx, tc.Admin.ID, user.ID, false)
		require.NoError(t, err)

		_, err = tc.AuthService.ResolveSession(ctx, token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("deleted user", func(t *testing.T) {
		user, token := tc.NewUser(t)
		require.NoError(t, tc.AuthService.DeleteUser(ctx, tc.Admin.ID, user.ID))

		_, err := tc.AuthService.ResolveSession(ctx, token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestService_ChangePassword(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	user, _ := tc.NewUser(t, testutil.MustChangePassword())

	err := tc.AuthService.ChangePassword(ctx, user.ID, "wrong", "brand-new-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = tc.AuthService.ChangePassword(ctx, user.ID, testutil.TestPassword, testutil.TestPassword)
	assert.ErrorIs(t, err, auth.ErrSamePassword)

	require.NoError(t, tc.AuthService.ChangePassword(ctx, user.ID, testutil.TestPassword, "brand-new-pass"))

	reloaded, err := tc.AuthService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.MustChangePassword)

	resp, err := tc.AuthService.Login(ctx, auth.LoginInput{Email: user.Email, Password: "brand-new-pass"})
	require.NoError(t, err)
	claims, err := tc.JWTService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.False(t, claims.MustChangePassword)
}

func TestService_UserAdministration(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("setting a password clears the rotation flag", func(t *testing.T) {
		user, _ := tc.NewUser(t, testutil.MustChangePassword())
		pw := "reset-by-admin"

		updated, err := tc.AuthService.UpdateUser(ctx, user.ID, auth.UpdateUserInput{Password: &pw})
		require.NoError(t, err)
		assert.False(t, updated.MustChangePassword)
		assert.NoError(t, auth.VerifyPassword(updated.PasswordHash, pw))
	})

	t.Run("email must stay unique", func(t *testing.T) {
		email := tc.Admin.Email
		_, err := tc.AuthService.UpdateUser(ctx, tc.User.ID, auth.UpdateUserInput{Email: &email})
		assert.ErrorIs(t, err, auth.ErrUserExists)
	})

	t.Run("plan must exist", func(t *testing.T) {
		_, err := tc.AuthService.SetPlan(ctx, tc.User.ID, "gold")
		assert.ErrorIs(t, err, auth.ErrPlanNotFound)

		updated, err := tc.AuthService.SetPlan(ctx, tc.User.ID, models.PlanProfessional)
		require.NoError(t, err)
		assert.Equal(t, models.PlanProfessional, updated.EffectivePlanID())
		require.NotNil(t, updated.Plan)
		assert.Equal(t, 50, updated.Plan.MaxTenants)
	})

	t.Run("admins cannot deactivate or delete themselves", func(t *testing.T) {
		_, err := tc.AuthService.SetActive(ctx, tc.Admin.ID, tc.Admin.ID, false)
		assert.ErrorIs(t, err, auth.ErrSelfAction)

		err = tc.AuthService.DeleteUser(ctx, tc.Admin.ID, tc.Admin.ID)
		assert.ErrorIs(t, err, auth.ErrSelfAction)
	})

	t.Run("list", func(t *testing.T) {
		users, total, err := tc.AuthService.ListUsers(ctx, 0, 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(2))
		assert.Len(t, users, int(total))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := tc.AuthService.SetActive(ctx, tc.Admin.ID, tc.Admin.ID, true)
		require.NoError(t, err)

		name := "x"
		_, err = tc.AuthService.UpdateUser(ctx, testUser().ID, auth.UpdateUserInput{Name: &name})
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}
