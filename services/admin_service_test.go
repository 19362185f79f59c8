package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-backend/config"
	"pos-backend/models"
	"pos-backend/utils"
)

func TestUserService_LastAdminGuard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	admin, err := svc.Create(ctx, UserInput{Username: "owner", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", admin.Password)

	err = svc.Delete(ctx, admin.ID)
	requireServiceError(t, err, http.StatusBadRequest, lastAdminMessage)

	_, err = svc.Update(ctx, admin.ID, UserUpdateInput{Role: models.RoleManager})
	requireServiceError(t, err, http.StatusBadRequest, "Cannot demote or deactivate the last admin user")

	_, err = svc.Deactivate(ctx, admin.ID)
	requireServiceError(t, err, http.StatusBadRequest, "")

	second, err := svc.Create(ctx, UserInput{Username: "partner", Password: "secret2", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin.ID))

	_, err = svc.Get(ctx, admin.ID)
	requireServiceError(t, err, http.StatusNotFound, userNotFound)
	_, err = svc.Get(ctx, second.ID)
	assert.NoError(t, err)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, UserInput{Username: "cashier", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, UserInput{Username: "cashier", Password: "secret2"})
	requireServiceError(t, err, http.StatusConflict, duplicateUser)
}

func TestUserService_ManagerByDefault(t *testing.T) {
	db := setupTestDB(t)
	user, err := NewUserService(db).Create(context.Background(), UserInput{Username: "staff", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
}

func TestBusinessInfoService_CriticalKeys(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBusinessInfoService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, BusinessInfoInput{Key: models.BusinessKeyName, Value: "Flamex"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, BusinessInfoInput{Key: models.BusinessKeyName, Value: "Other"})
	requireServiceError(t, err, http.StatusConflict, "Business info with key 'business_name' already exists")

	err = svc.Delete(ctx, models.BusinessKeyName)
	requireServiceError(t, err, http.StatusBadRequest, "Cannot delete critical business info")

	_, err = svc.Create(ctx, BusinessInfoInput{Key: "receipt_footer", Value: "Thank you"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "receipt_footer"))

	err = svc.Delete(ctx, "receipt_footer")
	requireServiceError(t, err, http.StatusNotFound, businessInfoNotFound)
}

func TestBusinessInfoService_UpsertAndSettings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBusinessInfoService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "tax_rate", BusinessInfoUpdateInput{Value: "16"})
	require.NoError(t, err)
	entry, err := svc.Upsert(ctx, "tax_rate", BusinessInfoUpdateInput{Value: "17"})
	require.NoError(t, err)
	assert.Equal(t, "17", entry.Value)

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tax_rate": "17"}, settings)
}

func TestCustomerService_Conflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CustomerInput{Name: "Sara", Phone: "03001234567"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CustomerInput{Name: "Other", Phone: "03001234567"})
	requireServiceError(t, err, http.StatusConflict, duplicatePhone)
}

func TestCustomerService_FindOrCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	_, _, err := svc.FindOrCreate(ctx, FindOrCreateInput{Phone: "03001234567"})
	requireServiceError(t, err, http.StatusBadRequest, "")

	customer, created, err := svc.FindOrCreate(ctx, FindOrCreateInput{Phone: "03001234567", Name: "Sara", Address: "House 1, Gulberg, Lahore"})
	require.NoError(t, err)
	assert.True(t, created)

	addresses, err := svc.Addresses(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)

	again, created, err := svc.FindOrCreate(ctx, FindOrCreateInput{Phone: "03001234567"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, customer.ID, again.ID)

	_, err = svc.CreateAddress(ctx, customer.ID, AddressInput{Address: "  house 1, gulberg, lahore "})
	requireServiceError(t, err, http.StatusBadRequest, duplicateAddress)
}

func TestExpenseService_Statistics(t *testing.T) {
	db := setupTestDB(t)
	now := testNow
	svc := NewExpenseService(db, fixedClock(&now))
	ctx := context.Background()

	for _, in := range []ExpenseInput{
		{Description: "Flour", Amount: money("300"), Category: strPtr("Ingredients")},
		{Description: "Oil", Amount: money("100"), Category: strPtr("Ingredients"), PaymentMethod: models.PaymentMethodBankTransfer},
		{Description: "Bulb", Amount: money("50")},
		{Description: "Old rent", Amount: money("9000"), Category: strPtr("Rent"), ExpenseDate: "2026-02-01"},
	} {
		_, err := svc.Create(ctx, in, nil)
		require.NoError(t, err)
	}

	stats, err := svc.Statistics(ctx, DateRangeQuery{Filter: FilterThisMonth})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCount)
	assert.True(t, stats.TotalAmount.Equal(money("450")), "total %s", stats.TotalAmount)
	assert.True(t, stats.AverageAmount.Equal(money("150")), "average %s", stats.AverageAmount)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Ingredients", stats.ByCategory[0].Name)
	assert.Equal(t, int64(2), stats.ByCategory[0].Count)
	assert.Equal(t, models.UncategorizedExpense, stats.ByCategory[1].Name)

	require.Len(t, stats.ByPaymentMethod, 2)
	assert.Equal(t, string(models.PaymentMethodCash), stats.ByPaymentMethod[0].Name)

	all, err := svc.Statistics(ctx, DateRangeQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalCount)

	_, err = svc.Create(ctx, ExpenseInput{Description: "Gas", Amount: money("10"), ExpenseDate: "11/03/2026"}, nil)
	requireServiceError(t, err, http.StatusBadRequest, "Invalid expense date")
}

func TestRiderService_Conflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRiderService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, RiderInput{Name: "Bilal", Phone: "03111111111", CNIC: strPtr("35202-1234567-1")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, RiderInput{Name: "Other", Phone: "03111111111"})
	requireServiceError(t, err, http.StatusConflict, "Rider with this phone number already exists")

	_, err = svc.Create(ctx, RiderInput{Name: "Other", Phone: "03222222222", CNIC: strPtr("35202-1234567-1")})
	requireServiceError(t, err, http.StatusConflict, "Rider with this CNIC already exists")
}

func TestMenuService_CategoryRules(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMenuService(db)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Burgers"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Burgers"})
	requireServiceError(t, err, http.StatusConflict, duplicateCategory)

	item, err := svc.CreateItem(ctx, MenuItemInput{Name: "Zinger", Price: money("650"), CategoryID: &category.ID})
	require.NoError(t, err)
	assert.True(t, item.Available)

	err = svc.DeleteCategory(ctx, category.ID)
	requireServiceError(t, err, http.StatusBadRequest, "Cannot delete category with existing menu items")

	toggled, err := svc.ToggleAvailability(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Available)

	available, err := svc.AvailableItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func newAuthService(t *testing.T) (*AuthService, *utils.MemoryBlocklist, *UserService) {
	t.Helper()
	db := setupTestDB(t)
	tokens := utils.NewTokenManager(config.JWTConfig{Secret: "test-secret", RefreshSecret: "test-refresh-secret"})
	blocklist := utils.NewMemoryBlocklist()
	return NewAuthService(db, tokens, blocklist), blocklist, NewUserService(db)
}

func TestAuthService_Login(t *testing.T) {
	auth, _, users := newAuthService(t)
	ctx := context.Background()
	user, err := users.Create(ctx, UserInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)

	session, err := auth.Login(ctx, LoginInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, user.ID, session.User.ID)
	assert.NotNil(t, session.User.LastLogin)

	_, err = auth.Login(ctx, LoginInput{Username: "manager", Password: "wrong"})
	requireServiceError(t, err, http.StatusUnauthorized, invalidCredentials)

	_, err = auth.Login(ctx, LoginInput{Username: "nobody", Password: "secret1"})
	requireServiceError(t, err, http.StatusUnauthorized, invalidCredentials)

	_, err = users.Update(ctx, user.ID, UserUpdateInput{Status: models.UserStatusInactive})
	require.NoError(t, err)
	_, err = auth.Login(ctx, LoginInput{Username: "manager", Password: "secret1"})
	requireServiceError(t, err, http.StatusUnauthorized, "Account is inactive")
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	auth, _, users := newAuthService(t)
	ctx := context.Background()
	_, err := users.Create(ctx, UserInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)

	session, err := auth.Login(ctx, LoginInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)

	next, err := auth.Refresh(ctx, RefreshInput{RefreshToken: session.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, next.RefreshToken)

	_, err = auth.Refresh(ctx, RefreshInput{RefreshToken: session.RefreshToken})
	requireServiceError(t, err, http.StatusUnauthorized, invalidRefreshToken)

	_, err = auth.Refresh(ctx, RefreshInput{RefreshToken: session.Token})
	requireServiceError(t, err, http.StatusUnauthorized, invalidRefreshToken)
}

func TestAuthService_LogoutRevokesEverything(t *testing.T) {
	auth, blocklist, users := newAuthService(t)
	ctx := context.Background()
	user, err := users.Create(ctx, UserInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)

	session, err := auth.Login(ctx, LoginInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)

	claims, err := auth.tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, user.ID, claims.ID, claims.ExpiresAt.Time))

	revoked, err := blocklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = auth.Refresh(ctx, RefreshInput{RefreshToken: session.RefreshToken})
	requireServiceError(t, err, http.StatusUnauthorized, invalidRefreshToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	auth, _, users := newAuthService(t)
	ctx := context.Background()
	user, err := users.Create(ctx, UserInput{Username: "manager", Password: "secret1"})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, user.ID, ChangePasswordInput{CurrentPassword: "nope", NewPassword: "secret2"})
	requireServiceError(t, err, http.StatusBadRequest, "Current password is incorrect")

	require.NoError(t, auth.ChangePassword(ctx, user.ID, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = auth.Login(ctx, LoginInput{Username: "manager", Password: "secret1"})
	requireServiceError(t, err, http.StatusUnauthorized, invalidCredentials)
	_, err = auth.Login(ctx, LoginInput{Username: "manager", Password: "secret2"})
	assert.NoError(t, err)
}

func TestResolveDateRange_Presets(t *testing.T) {
	now := testNow
	today, err := ResolveDateRange(DateRangeQuery{Filter: FilterToday}, now, time.Local)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", today.Start.Format(DateLayout))
	assert.Equal(t, "2026-03-11", today.End.Format(DateLayout))

	week, err := ResolveDateRange(DateRangeQuery{Filter: FilterThisWeek}, now, time.Local)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", week.Start.Format(DateLayout))

	month, err := ResolveDateRange(DateRangeQuery{Filter: FilterThisMonth}, now, time.Local)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", month.Start.Format(DateLayout))

	def, err := ResolveDateRange(DateRangeQuery{}, now, time.Local)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-09", def.Start.Format(DateLayout))

	_, err = ResolveDateRange(DateRangeQuery{Filter: "last_decade"}, now, time.Local)
	requireServiceError(t, err, http.StatusBadRequest, invalidDateRange)

	_, err = ResolveDateRange(DateRangeQuery{Start: "2026-03-10", End: "2026-03-01"}, now, time.Local)
	requireServiceError(t, err, http.StatusBadRequest, invalidDateRange)

	none, err := OptionalDateRange(DateRangeQuery{}, now, time.Local)
	require.NoError(t, err)
	assert.Nil(t, none)
}
