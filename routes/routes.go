package routes

import (
	"time"

	"pos-backend/handlers"
	"pos-backend/metrics"
	"pos-backend/middleware"
	"pos-backend/services"
	"pos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the shared collaborators every handler is built from.
type Dependencies struct {
	DB          *gorm.DB
	Tokens      *utils.TokenManager
	Blocklist   utils.TokenBlocklist
	Metrics     *metrics.Metrics
	Clock       services.Clock
	Environment string
	StartedAt   time.Time
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	db := deps.DB
	if deps.Metrics == nil {
		deps.Metrics = metrics.Default()
	}
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}

	// Initialize handlers
	menu := services.NewMenuService(db)
	healthHandler := &handlers.HealthHandler{DB: db, Metrics: deps.Metrics, Environment: deps.Environment, StartedAt: deps.StartedAt}
	authHandler := &handlers.AuthHandler{Auth: services.NewAuthService(db, deps.Tokens, deps.Blocklist)}
	orderHandler := &handlers.OrderHandler{Orders: services.NewOrderService(db, deps.Clock)}
	reportHandler := &handlers.ReportHandler{Reports: services.NewReportService(db, deps.Clock)}
	customerHandler := &handlers.CustomerHandler{Customers: services.NewCustomerService(db)}
	riderHandler := &handlers.RiderHandler{Riders: services.NewRiderService(db)}
	categoryHandler := &handlers.CategoryHandler{Menu: menu}
	menuItemHandler := &handlers.MenuItemHandler{Menu: menu}
	expenseHandler := &handlers.ExpenseHandler{Expenses: services.NewExpenseService(db, deps.Clock)}
	userHandler := &handlers.UserHandler{Users: services.NewUserService(db)}
	businessInfoHandler := &handlers.BusinessInfoHandler{Info: services.NewBusinessInfoService(db)}

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", healthHandler.GetMetrics)
	r.NoRoute(handlers.NotFound)

	auth := middleware.AuthMiddleware(deps.Tokens, deps.Blocklist, db)
	manager := middleware.ManagerMiddleware()

	api := r.Group("/api")

	// Public auth routes
	{
		a := api.Group("/auth")
		a.POST("/login", authHandler.Login)
		a.POST("/register", authHandler.Register)
		a.POST("/refresh-token", authHandler.RefreshToken)

		a.POST("/logout", auth, authHandler.Logout)
		a.GET("/me", auth, authHandler.Me)
		a.PUT("/change-password", auth, authHandler.ChangePassword)
	}

	// Everything below requires a valid access token
	protected := api.Group("")
	protected.Use(auth)

	orders := protected.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetOrders)

		orders.GET("/dine-in/all", orderHandler.GetDineInOrders)
		orders.GET("/dine-in/active", orderHandler.GetActiveDineInOrders)
		orders.GET("/dine-in/stats", orderHandler.GetDineInStats)
		orders.GET("/dine-in/tables/availability", orderHandler.GetTableAvailability)
		orders.GET("/delivery", orderHandler.GetDeliveryOrders)
		orders.GET("/delivery/stats", orderHandler.GetDeliveryStats)
		orders.GET("/statistics/summary", orderHandler.GetStatistics)
		orders.GET("/reports/sales", orderHandler.GetSalesReport)

		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/items", orderHandler.GetOrderItems)
		orders.GET("/:id/history", orderHandler.GetOrderHistory)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.PUT("/:id/mark-paid", orderHandler.MarkPaid)
		orders.PUT("/:id/status", orderHandler.UpdateStatus)
		orders.PUT("/:id/delivery/status", orderHandler.UpdateDeliveryStatus)
		orders.PUT("/:id/assign-rider", orderHandler.AssignRider)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.DELETE("/:id", manager, orderHandler.CancelOrder)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/sales/daily", reportHandler.DailySales)
		reports.GET("/sales/monthly", reportHandler.MonthlySales)
		reports.GET("/sales/yearly", reportHandler.YearlySales)
		reports.GET("/orders/summary", reportHandler.OrderSummary)
		reports.GET("/orders/timeline", reportHandler.Timeline)
		reports.GET("/inventory/sales", reportHandler.TopItems)
		reports.GET("/inventory/low-stock", reportHandler.LowStock)
		reports.GET("/customers/top", reportHandler.TopCustomers)
		reports.GET("/customers/loyalty", reportHandler.CustomerLoyalty)
		reports.GET("/riders/performance", reportHandler.RiderPerformance)
		reports.GET("/financial/summary", reportHandler.FinancialSummary)
		reports.GET("/financial/profit-loss", reportHandler.ProfitLoss)
		reports.GET("/overview", reportHandler.DeliveryOverview)
		reports.GET("/area-analysis", reportHandler.DeliveryAreas)
		reports.GET("/pending-cod", reportHandler.PendingCOD)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("/search", customerHandler.SearchCustomers)
		customers.GET("/search-by-phone", customerHandler.SearchByPhone)
		customers.GET("/phone/:phone", customerHandler.GetCustomerByPhone)
		customers.POST("/find-or-create", customerHandler.FindOrCreate)
		customers.PUT("/addresses/:addressId", customerHandler.UpdateAddress)
		customers.DELETE("/addresses/:addressId", customerHandler.DeleteAddress)

		customers.GET("", customerHandler.GetCustomers)
		customers.POST("", customerHandler.CreateCustomer)
		customers.GET("/:id", customerHandler.GetCustomer)
		customers.PUT("/:id", customerHandler.UpdateCustomer)
		customers.DELETE("/:id", customerHandler.DeleteCustomer)
		customers.GET("/:id/orders", customerHandler.GetCustomerOrders)
		customers.GET("/:id/addresses", customerHandler.GetAddresses)
		customers.POST("/:id/addresses", customerHandler.CreateAddress)
	}

	riders := protected.Group("/riders")
	{
		riders.GET("/available/active", riderHandler.GetActiveRiders)
		riders.GET("/search/phone/:phone", riderHandler.GetRiderByPhone)

		riders.GET("", riderHandler.GetRiders)
		riders.POST("", riderHandler.CreateRider)
		riders.GET("/:id", riderHandler.GetRider)
		riders.PUT("/:id", riderHandler.UpdateRider)
		riders.DELETE("/:id", riderHandler.DeleteRider)
		riders.PATCH("/:id/toggle-status", riderHandler.ToggleStatus)
		riders.GET("/:id/orders", riderHandler.GetRiderOrders)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.POST("", categoryHandler.CreateCategory)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	menuItems := protected.Group("/menu-items")
	{
		menuItems.GET("/available/all", menuItemHandler.GetAvailableItems)
		menuItems.GET("/category/:categoryId", menuItemHandler.GetItemsByCategory)

		menuItems.GET("", menuItemHandler.GetMenuItems)
		menuItems.POST("", menuItemHandler.CreateMenuItem)
		menuItems.GET("/:id", menuItemHandler.GetMenuItem)
		menuItems.PUT("/:id", menuItemHandler.UpdateMenuItem)
		menuItems.PATCH("/:id/toggle-availability", menuItemHandler.ToggleAvailability)
		menuItems.DELETE("/:id", menuItemHandler.DeleteMenuItem)
	}

	expenses := protected.Group("/expenses")
	{
		expenses.GET("/statistics/summary", expenseHandler.GetStatistics)
		expenses.GET("/categories/list", expenseHandler.GetCategories)

		expenses.GET("", expenseHandler.GetExpenses)
		expenses.POST("", expenseHandler.CreateExpense)
		expenses.GET("/:id", expenseHandler.GetExpense)
		expenses.PUT("/:id", expenseHandler.UpdateExpense)
		expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	}

	users := protected.Group("/users")
	{
		// Self-service
		users.GET("/profile/me", userHandler.GetProfile)
		users.PUT("/profile/update", userHandler.UpdateProfile)
		users.PUT("/profile/deactivate", userHandler.DeactivateProfile)

		// Management (manager or admin)
		users.GET("", manager, userHandler.GetUsers)
		users.POST("", manager, userHandler.CreateUser)
		users.GET("/:id", manager, userHandler.GetUser)
		users.PUT("/:id", manager, userHandler.UpdateUser)
		users.DELETE("/:id", manager, userHandler.DeleteUser)
	}

	businessInfo := protected.Group("/business-info")
	{
		businessInfo.GET("", businessInfoHandler.GetAll)
		businessInfo.GET("/settings/all", businessInfoHandler.GetSettings)
		businessInfo.GET("/:key", businessInfoHandler.Get)

		businessInfo.POST("", manager, businessInfoHandler.Create)
		businessInfo.PUT("/:key", manager, businessInfoHandler.Update)
		businessInfo.PUT("/:key/upsert", manager, businessInfoHandler.Upsert)
		businessInfo.DELETE("/:key", manager, businessInfoHandler.Delete)
	}
}
