package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pos-backend/config"
	"pos-backend/database"
	"pos-backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedMenuItem(t *testing.T, db *gorm.DB, name, price string, available bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: money(price), Available: available}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedCustomer(t *testing.T, db *gorm.DB, name, phone string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name, Phone: phone}
	require.NoError(t, db.Create(&c).Error)
	return c
}

var orderSeq int

// seedOrder inserts a one-line order; mutate adjusts it before insert.
func seedOrder(t *testing.T, db *gorm.DB, item models.MenuItem, total string, mutate func(*models.Order)) models.Order {
	t.Helper()
	orderSeq++
	o := models.Order{
		OrderNumber:     orderSeq,
		BusinessDate:    time.Now().Format("2006-01-02"),
		OrderType:       models.OrderTypeDineIn,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   models.PaymentMethodCash,
		Subtotal:        money(total),
		DiscountPercent: decimal.Zero,
		DeliveryCharge:  decimal.Zero,
		TotalAmount:     money(total),
		Items: []models.OrderItem{
			{MenuItemID: item.ID, Quantity: 1, Price: money(total)},
		},
	}
	if mutate != nil {
		mutate(&o)
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func deliveryStatus(s models.DeliveryStatus) *models.DeliveryStatus { return &s }

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// ==================== Base Helpers ====================

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)

	p = Pagination{Page: 3, Limit: 10000}.Normalize()
	assert.Equal(t, MaxPageSize, p.Limit)
	assert.Equal(t, 2*MaxPageSize, p.Offset())

	assert.Equal(t, 3, Pagination{Limit: 50}.TotalPages(101))
	assert.Equal(t, 0, Pagination{Limit: 50}.TotalPages(0))
}

func TestWrapTranslatesSentinels(t *testing.T) {
	assert.True(t, errors.Is(wrap(gorm.ErrRecordNotFound, "x"), ErrNotFound))
	assert.True(t, errors.Is(wrap(gorm.ErrDuplicatedKey, "x"), ErrDuplicateKey))
	assert.Nil(t, wrap(nil, "x"))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: customers.phone")))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
}

// ==================== Orders ====================

func TestOrderFindByIDLoadsDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	item := seedMenuItem(t, db, "Zinger Burger", "450", true)
	customer := seedCustomer(t, db, "Ali", "03001234567")
	order := seedOrder(t, db, item, "450", func(o *models.Order) {
		o.OrderType = models.OrderTypeDelivery
		o.CustomerID = &customer.ID
		o.DeliveryStatus = deliveryStatus(models.DeliveryStatusPending)
	})

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].MenuItem)
	assert.Equal(t, "Zinger Burger", found.Items[0].MenuItem.Name)
	require.NotNil(t, found.Customer)
	assert.Equal(t, "Ali", found.Customer.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOrderListFiltersAndSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	item := seedMenuItem(t, db, "Fries", "200", true)
	customer := seedCustomer(t, db, "Sara Khan", "03119876543")

	dineIn := seedOrder(t, db, item, "200", func(o *models.Order) { o.TableNumber = intPtr(7) })
	delivery := seedOrder(t, db, item, "300", func(o *models.Order) {
		o.OrderType = models.OrderTypeDelivery
		o.CustomerID = &customer.ID
		o.DeliveryAddress = strPtr("House 12, Gulberg, Lahore")
		o.DeliveryStatus = deliveryStatus(models.DeliveryStatusPending)
	})
	seedOrder(t, db, item, "100", func(o *models.Order) { o.OrderStatus = models.OrderStatusCancelled })

	orders, total, err := repo.List(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "cancelled orders are hidden by default")
	assert.Len(t, orders, 2)

	_, total, err = repo.List(ctx, OrderFilter{OrderStatus: models.OrderStatusCancelled})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	orders, _, err = repo.List(ctx, OrderFilter{Search: "sara"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, delivery.ID, orders[0].ID)

	orders, _, err = repo.List(ctx, OrderFilter{Search: "gulberg"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, delivery.ID, orders[0].ID)

	orders, _, err = repo.List(ctx, OrderFilter{Search: "7"})
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Contains(t, ids, dineIn.ID)

	orders, total, err = repo.List(ctx, OrderFilter{OrderType: models.OrderTypeDineIn, Pagination: Pagination{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, orders, 1)
}

func TestOrderListDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	item := seedMenuItem(t, db, "Tea", "80", true)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	seedOrder(t, db, item, "80", func(o *models.Order) { o.CreatedAt = now })
	seedOrder(t, db, item, "80", func(o *models.Order) {
		o.CreatedAt = yesterday
		o.BusinessDate = yesterday.Format("2006-01-02")
	})

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := start.Add(24*time.Hour - time.Nanosecond)
	_, total, err := repo.List(ctx, OrderFilter{Range: &TimeRange{From: start, To: end}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestOrderCountByBusinessDateAndUniqueNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	item := seedMenuItem(t, db, "Shake", "350", true)

	first := seedOrder(t, db, item, "350", nil)
	count, err := repo.CountByBusinessDate(ctx, first.BusinessDate)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	dup := models.Order{
		OrderNumber:   first.OrderNumber,
		BusinessDate:  first.BusinessDate,
		OrderType:     models.OrderTypeDineIn,
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodCash,
	}
	err = repo.Create(ctx, &dup)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	require.NoError(t, repo.LockIntake(ctx), "advisory lock is a no-op on sqlite")
}

func TestOrderUpdateAndReplaceItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	burger := seedMenuItem(t, db, "Burger", "500", true)
	cola := seedMenuItem(t, db, "Cola", "100", true)
	order := seedOrder(t, db, burger, "500", nil)

	err := repo.ReplaceItems(ctx, order.ID, []models.OrderItem{
		{MenuItemID: cola.ID, Quantity: 2, Price: money("100")},
		{MenuItemID: burger.ID, Quantity: 1, Price: money("500")},
	})
	require.NoError(t, err)
	items, err := repo.Items(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, repo.Update(ctx, order.ID, map[string]interface{}{"payment_status": models.PaymentStatusCompleted}))
	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, found.PaymentStatus)

	err = repo.Update(ctx, uuid.New(), map[string]interface{}{"payment_status": models.PaymentStatusCompleted})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOrderEditHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	item := seedMenuItem(t, db, "Wrap", "300", true)
	order := seedOrder(t, db, item, "300", nil)

	older := models.OrderEditHistory{OrderID: order.ID, EditedBy: "A", EditedAt: time.Now().Add(-time.Hour), ChangeReason: "first"}
	newer := models.OrderEditHistory{OrderID: order.ID, EditedBy: "B", EditedAt: time.Now(), ChangeReason: "second"}
	require.NoError(t, repo.CreateEditHistory(ctx, &older))
	require.NoError(t, repo.CreateEditHistory(ctx, &newer))

	history, err := repo.EditHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].ChangeReason)
}

func TestOrderOccupiedTables(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	item := seedMenuItem(t, db, "Pizza", "1200", true)

	open := seedOrder(t, db, item, "1200", func(o *models.Order) { o.TableNumber = intPtr(3) })
	seedOrder(t, db, item, "1200", func(o *models.Order) {
		o.TableNumber = intPtr(4)
		o.PaymentStatus = models.PaymentStatusCompleted
	})

	tables, err := repo.OccupiedTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 3, tables[0].TableNumber)
	assert.Equal(t, open.ID, tables[0].OrderID)

	found, err := repo.FindOccupyingOrder(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, open.ID, found.ID)

	_, err = repo.FindOccupyingOrder(ctx, 4)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOrderStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	item := seedMenuItem(t, db, "Biryani", "100", true)
	customer := seedCustomer(t, db, "Hina", "03335550000")

	seedOrder(t, db, item, "100.50", nil)
	seedOrder(t, db, item, "200", func(o *models.Order) { o.PaymentStatus = models.PaymentStatusCompleted })
	seedOrder(t, db, item, "300", func(o *models.Order) {
		o.OrderType = models.OrderTypeDelivery
		o.CustomerID = &customer.ID
		o.DeliveryStatus = deliveryStatus(models.DeliveryStatusDelivered)
		o.PaymentStatus = models.PaymentStatusCompleted
	})
	seedOrder(t, db, item, "150", func(o *models.Order) {
		o.OrderType = models.OrderTypeDelivery
		o.CustomerID = &customer.ID
		o.PaymentMethod = models.PaymentMethodBankTransfer
		o.DeliveryStatus = deliveryStatus(models.DeliveryStatusPending)
	})
	seedOrder(t, db, item, "999", func(o *models.Order) { o.OrderStatus = models.OrderStatusCancelled })

	dineIn, err := repo.DineInStats(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dineIn.PendingOrders)
	assert.EqualValues(t, 1, dineIn.CompletedOrders)
	assert.True(t, dineIn.TotalRevenue.Equal(money("300.50")), dineIn.TotalRevenue.String())

	delivery, err := repo.DeliveryStats(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, delivery.TotalOrders)
	assert.True(t, delivery.TotalRevenue.Equal(money("450")))
	assert.True(t, delivery.AverageOrderValue.Equal(money("225")))
	assert.EqualValues(t, 1, delivery.CompletedDeliveries.Count)
	assert.EqualValues(t, 1, delivery.BankPayments.Count)
	assert.EqualValues(t, 0, delivery.CODPending.Count)

	stats, err := repo.Statistics(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(money("750.50")), stats.TotalRevenue.String())
	assert.EqualValues(t, 2, stats.DineInOrders)
	assert.EqualValues(t, 1, stats.BankOrdersCount)
	assert.EqualValues(t, 2, stats.PendingOrders)

	totals, err := repo.CustomerTotals(ctx, customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, totals.Count)
	assert.True(t, totals.TotalAmount.Equal(money("450")))
}

func TestOrderRiderTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	item := seedMenuItem(t, db, "Karahi", "1500", true)
	customer := seedCustomer(t, db, "Bilal", "03451112222")
	rider := models.Rider{Name: "Usman", Phone: "03000000001"}
	require.NoError(t, db.Create(&rider).Error)

	delivered := func(total string, method models.PaymentMethod, paid models.PaymentStatus) {
		seedOrder(t, db, item, total, func(o *models.Order) {
			o.OrderType = models.OrderTypeDelivery
			o.CustomerID = &customer.ID
			o.RiderID = &rider.ID
			o.PaymentMethod = method
			o.PaymentStatus = paid
			o.DeliveryStatus = deliveryStatus(models.DeliveryStatusDelivered)
		})
	}
	delivered("1500", models.PaymentMethodCash, models.PaymentStatusCompleted)
	delivered("700", models.PaymentMethodBankTransfer, models.PaymentStatusCompleted)
	delivered("300", models.PaymentMethodCash, models.PaymentStatusPending)

	count, cash, err := repo.RiderTotals(ctx, rider.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.True(t, cash.Equal(money("1500")), cash.String())

	n, err := repo.CountByRider(ctx, rider.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestOrderItemsSales(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	burger := seedMenuItem(t, db, "Burger", "500", true)
	fries := seedMenuItem(t, db, "Fries", "150", true)

	seedOrder(t, db, burger, "1000", func(o *models.Order) {
		o.Items = []models.OrderItem{
			{MenuItemID: burger.ID, Quantity: 2, Price: money("500")},
			{MenuItemID: fries.ID, Quantity: 1, Price: money("150")},
		}
	})
	seedOrder(t, db, fries, "150", nil)

	sales, err := repo.ItemsSales(ctx, nil)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "Burger", sales[0].ItemName)
	assert.EqualValues(t, 2, sales[0].Quantity)
	assert.True(t, sales[0].TotalRevenue.Equal(money("1000")))
	assert.Equal(t, "Fries", sales[1].ItemName)
	assert.EqualValues(t, 2, sales[1].OrderCount)
}

// ==================== Customers ====================

func TestCustomerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	c := models.Customer{Name: "Ayesha", Phone: "03211234567", BackupPhone: strPtr("04235550000")}
	require.NoError(t, repo.Create(ctx, &c))

	dup := models.Customer{Name: "Other", Phone: "03211234567"}
	assert.True(t, errors.Is(repo.Create(ctx, &dup), ErrDuplicateKey))

	found, err := repo.SearchByPhone(ctx, "4235", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)

	list, total, err := repo.List(ctx, "ayes", Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	first := models.CustomerAddress{CustomerID: c.ID, Address: "Street 1, DHA, Karachi", IsDefault: true}
	require.NoError(t, repo.CreateAddress(ctx, &first))
	require.NoError(t, repo.ClearDefaultAddress(ctx, c.ID))
	second := models.CustomerAddress{CustomerID: c.ID, Address: "Block 5, Clifton, Karachi", IsDefault: true}
	require.NoError(t, repo.CreateAddress(ctx, &second))

	addresses, err := repo.Addresses(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, second.ID, addresses[0].ID)
	assert.False(t, addresses[1].IsDefault)

	match, err := repo.FindAddressByText(ctx, c.ID, "  street 1, dha, karachi ", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, match.ID)
	_, err = repo.FindAddressByText(ctx, c.ID, "street 1, dha, karachi", &first.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, repo.SetStats(ctx, c.ID, 4, money("1234.50")))
	loaded, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.TotalOrders)
	assert.True(t, loaded.TotalSpent.Equal(money("1234.5")))

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.FindByID(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

// ==================== Riders ====================

func TestRiderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRiderRepository(db)
	ctx := context.Background()

	active := models.Rider{Name: "Kamran", Phone: "03001111111", CNIC: strPtr("35202-1234567-1")}
	inactive := models.Rider{Name: "Zeeshan", Phone: "03002222222", Status: models.RiderStatusInactive}
	require.NoError(t, repo.Create(ctx, &active))
	require.NoError(t, repo.Create(ctx, &inactive))

	dup := models.Rider{Name: "Copy", Phone: "03003333333", CNIC: strPtr("35202-1234567-1")}
	assert.True(t, errors.Is(repo.Create(ctx, &dup), ErrDuplicateKey))

	riders, err := repo.Active(ctx)
	require.NoError(t, err)
	require.Len(t, riders, 1)
	assert.Equal(t, "Kamran", riders[0].Name)

	list, total, err := repo.List(ctx, RiderFilter{Status: models.RiderStatusInactive})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Zeeshan", list[0].Name)

	byPhone, err := repo.FindByPhone(ctx, "03001111111")
	require.NoError(t, err)
	assert.Equal(t, active.ID, byPhone.ID)
}

// ==================== Menu ====================

func TestMenuRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMenuRepository(db)
	ctx := context.Background()

	cat := models.Category{Name: "Burgers"}
	require.NoError(t, repo.CreateCategory(ctx, &cat))
	dupCat := models.Category{Name: "Burgers"}
	assert.True(t, errors.Is(repo.CreateCategory(ctx, &dupCat), ErrDuplicateKey))

	zinger := models.MenuItem{Name: "Zinger", Price: money("550"), Available: true, CategoryID: &cat.ID}
	beef := models.MenuItem{Name: "Beef Burger", Price: money("650"), Available: false, CategoryID: &cat.ID}
	require.NoError(t, repo.CreateItem(ctx, &zinger))
	require.NoError(t, repo.CreateItem(ctx, &beef))

	available, err := repo.FindAvailableItems(ctx, []uuid.UUID{zinger.ID, beef.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, zinger.ID, available[0].ID)

	no := false
	items, err := repo.ListItems(ctx, MenuItemFilter{Available: &no})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Burgers", items[0].Category.Name)

	items, err = repo.ListItems(ctx, MenuItemFilter{Search: "ZING"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.UpdateItem(ctx, beef.ID, map[string]interface{}{"available": true}))
	loaded, err := repo.FindItem(ctx, beef.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Available)

	count, err := repo.CountItemsInCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	byName, err := repo.FindCategoryByName(ctx, " burgers ")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, byName.ID)
}

// ==================== Expenses ====================

func TestExpenseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExpenseRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &models.Expense{Description: "Chicken 10kg", Amount: money("6500"), Category: strPtr("Meat"), ExpenseDate: now}))
	require.NoError(t, repo.Create(ctx, &models.Expense{Description: "Gas bill", Amount: money("4000"), Category: strPtr("Utilities"), ExpenseDate: now.AddDate(0, 0, -10)}))
	require.NoError(t, repo.Create(ctx, &models.Expense{Description: "Tissue", Amount: money("300"), ExpenseDate: now}))

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Meat", "Utilities"}, categories)

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	rng := &TimeRange{From: start, To: start.Add(24*time.Hour - time.Nanosecond)}
	inRange, err := repo.FindInRange(ctx, rng)
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	list, total, err := repo.List(ctx, ExpenseFilter{Search: "gas"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Gas bill", list[0].Description)
}

// ==================== Users ====================

func TestUserRepositoryRefreshTokens(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{Username: "owner", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, repo.Create(ctx, &user))

	admins, err := repo.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)

	now := time.Now()
	token := models.RefreshToken{UserID: user.ID, Token: "refresh-1", ExpiresAt: now.Add(time.Hour)}
	expired := models.RefreshToken{UserID: user.ID, Token: "refresh-2", ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, repo.CreateRefreshToken(ctx, &token))
	require.NoError(t, repo.CreateRefreshToken(ctx, &expired))

	found, err := repo.FindActiveRefreshToken(ctx, "refresh-1", now)
	require.NoError(t, err)
	assert.Equal(t, token.ID, found.ID)

	_, err = repo.FindActiveRefreshToken(ctx, "refresh-2", now)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, repo.RevokeUserRefreshTokens(ctx, user.ID, now))
	_, err = repo.FindActiveRefreshToken(ctx, "refresh-1", now)
	assert.True(t, errors.Is(err, ErrNotFound))

	removed, err := repo.DeleteExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByUsername(ctx, "owner")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// ==================== Business Info ====================

func TestBusinessInfoUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBusinessInfoRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.BusinessInfo{Key: "tax_rate", Value: "16"}))
	require.NoError(t, repo.Upsert(ctx, &models.BusinessInfo{Key: "tax_rate", Value: "17"}))

	entry, err := repo.FindByKey(ctx, "tax_rate")
	require.NoError(t, err)
	assert.Equal(t, "17", entry.Value)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	dup := models.BusinessInfo{Key: "tax_rate", Value: "18"}
	assert.True(t, errors.Is(repo.Create(ctx, &dup), ErrDuplicateKey))

	require.NoError(t, repo.Delete(ctx, "tax_rate"))
	assert.True(t, errors.Is(repo.Delete(ctx, "tax_rate"), ErrNotFound))
}
