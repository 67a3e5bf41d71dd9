package router

import (
	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/interfaces/http/handler"
	"github.com/ecclesia/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted under the versioned API
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Church     *handler.ChurchHandler
	Member     *handler.MemberHandler
	Accounting *handler.AccountingHandler
	Finance    *handler.FinanceHandler
	School     *handler.SchoolHandler
	LessonPlan *handler.LessonPlanHandler
	Store      *handler.StoreHandler
	Order      *handler.OrderHandler
	Sales      *handler.SalesHandler
}

// Role sets allowed per area
var (
	adminOnly      = []identity.Role{identity.RoleAdmin}
	churchStaff    = []identity.Role{identity.RoleAdmin, identity.RoleManager}
	financeStaff   = []identity.Role{identity.RoleAdmin, identity.RoleManager, identity.RoleFinance}
	schoolStaff    = []identity.Role{identity.RoleAdmin, identity.RoleManager, identity.RoleSuperintendent}
	schoolTeachers = []identity.Role{identity.RoleAdmin, identity.RoleManager, identity.RoleSuperintendent, identity.RoleTeacher}
)

// RegisterAPI declares every domain group of the API on the router
func RegisterAPI(r *Router, h Handlers) {
	r.Register(systemRoutes(h)).
		Register(authRoutes(h)).
		Register(userRoutes(h)).
		Register(churchRoutes(h)).
		Register(memberRoutes(h)).
		Register(accountingRoutes(h)).
		Register(financeRoutes(h)).
		Register(schoolRoutes(h)).
		Register(storeRoutes(h))
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo).Describe("Build and runtime information")
	g.GET("/ping", h.System.Ping)
	return g
}

func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", h.Auth.Login).Describe("Email and password login")
	g.POST("/refresh", h.Auth.RefreshToken).Describe("Rotate the refresh token")
	g.POST("/logout", h.Auth.Logout)
	g.GET("/me", h.Auth.GetCurrentUser)
	g.GET("/redirect", h.Auth.Redirect).Describe("Landing page of the current user")
	g.PUT("/password", h.Auth.ChangePassword)
	return g
}

func userRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("users", "/users").Use(middleware.RequireRole(adminOnly...))
	g.POST("", h.User.Create)
	g.GET("", h.User.List)
	g.PUT("/:id/role", h.User.ChangeRole)
	g.DELETE("/:id", h.User.Delete).Describe("Delete a user and revoke its tokens")
	return g
}

func churchRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("churches", "/churches")
	g.GET("/current", h.Church.Current)

	admin := g.Group("churches-admin", "").Use(middleware.RequireRole(adminOnly...))
	admin.POST("", h.Church.Create).Describe("Register a church and seed its chart of accounts")
	admin.GET("", h.Church.List)
	admin.GET("/:id", h.Church.GetByID)
	admin.PUT("/:id", h.Church.Update)
	admin.POST("/:id/deactivate", h.Church.Deactivate)
	admin.PUT("/:id/superintendent", h.Church.AppointSuperintendent)
	return g
}

func memberRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("members", "/members").Use(middleware.RequireRoleForWrites(churchStaff...))
	g.POST("", h.Member.Create)
	g.GET("", h.Member.List)
	g.GET("/birthdays", h.Member.Birthdays).Describe("Active members with a birthday in the month")
	g.GET("/stats", h.Member.Stats)
	g.GET("/:id", h.Member.GetByID)
	g.PUT("/:id", h.Member.Update)
	g.DELETE("/:id", h.Member.Delete)
	return g
}

func accountingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("accounting", "/accounting").Use(middleware.RequireRole(financeStaff...))

	accounts := g.Group("chart", "/accounts")
	accounts.GET("", h.Accounting.ListChart)
	accounts.POST("", h.Accounting.CreateAccount)
	accounts.POST("/seed", h.Accounting.SeedChart).Describe("Install the default chart of accounts")
	accounts.PUT("/:id", h.Accounting.UpdateAccount)
	accounts.DELETE("/:id", h.Accounting.DeleteAccount)

	entries := g.Group("journal", "/entries")
	entries.POST("", h.Accounting.PostEntry).Describe("Post a balanced journal entry")
	entries.GET("", h.Accounting.ListEntries)
	entries.DELETE("/:id", h.Accounting.DeleteEntry)

	statements := g.Group("statements", "/statements")
	statements.GET("/trial-balance", h.Accounting.TrialBalance).Describe("json, html or pdf via ?format")
	statements.GET("/balance-sheet", h.Accounting.BalanceSheet)
	statements.GET("/income-statement", h.Accounting.IncomeStatement)
	return g
}

func financeRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("finance", "/finance").Use(middleware.RequireRole(financeStaff...))

	accounts := g.Group("bank-accounts", "/bank-accounts")
	accounts.POST("", h.Finance.CreateBankAccount).Describe("Open a bank account with its initial balance")
	accounts.GET("", h.Finance.ListBankAccounts)
	accounts.GET("/:id", h.Finance.GetBankAccount)
	accounts.PUT("/:id", h.Finance.UpdateBankAccount)
	accounts.POST("/:id/close", h.Finance.CloseBankAccount)
	accounts.DELETE("/:id", h.Finance.DeleteBankAccount)

	g.POST("/entries", h.Finance.RecordEntry)
	g.GET("/entries", h.Finance.ListEntries)
	g.GET("/summary", h.Finance.Summary).Describe("Cash-flow totals per category")

	bills := g.Group("bills", "/bills")
	bills.POST("", h.Finance.CreateBill)
	bills.GET("", h.Finance.ListBills)
	bills.GET("/overdue", h.Finance.ListOverdue)
	bills.GET("/:id", h.Finance.GetBill)
	bills.PUT("/:id", h.Finance.UpdateBill)
	bills.POST("/:id/pay", h.Finance.PayBill)
	bills.POST("/:id/cancel", h.Finance.CancelBill)
	bills.DELETE("/:id", h.Finance.DeleteBill)
	bills.POST("/:id/receipt", h.Finance.ReceiptUploadURL).Describe("Presigned upload URL for the receipt")
	bills.GET("/:id/receipt", h.Finance.ReceiptDownload)
	return g
}

func schoolRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("school", "/school")

	registers := g.Group("registers", "").Use(middleware.RequireRoleForWrites(schoolStaff...))
	registers.POST("/classrooms", h.School.CreateClassroom)
	registers.GET("/classrooms", h.School.ListClassrooms)
	registers.GET("/classrooms/:id", h.School.GetClassroom)
	registers.PUT("/classrooms/:id", h.School.UpdateClassroom)
	registers.DELETE("/classrooms/:id", h.School.DeleteClassroom).Describe("Archives classrooms that have lesson plans")
	registers.POST("/magazines", h.School.CreateMagazine)
	registers.GET("/magazines", h.School.ListMagazines)
	registers.GET("/magazines/:id", h.School.GetMagazine)
	registers.PUT("/magazines/:id", h.School.UpdateMagazine)
	registers.DELETE("/magazines/:id", h.School.DeleteMagazine)
	registers.POST("/magazines/:id/cover", h.School.CoverUploadURL)
	registers.POST("/students", h.School.CreateStudent)
	registers.GET("/students", h.School.ListStudents)
	registers.GET("/students/:id", h.School.GetStudent)
	registers.PUT("/students/:id", h.School.UpdateStudent)
	registers.DELETE("/students/:id", h.School.DeleteStudent)
	registers.POST("/teachers", h.School.CreateTeacher)
	registers.GET("/teachers", h.School.ListTeachers)
	registers.GET("/teachers/:id", h.School.GetTeacher)
	registers.PUT("/teachers/:id", h.School.UpdateTeacher)
	registers.DELETE("/teachers/:id", h.School.DeleteTeacher)
	registers.POST("/onboarding", h.LessonPlan.Onboard).Describe("Magazine, classroom and plan in one step")

	plans := g.Group("plans", "/plans").Use(middleware.RequireRoleForWrites(schoolStaff...))
	plans.POST("", h.LessonPlan.GeneratePlan)
	plans.GET("", h.LessonPlan.ListPlans)
	plans.GET("/:id", h.LessonPlan.GetPlan)
	plans.DELETE("/:id", h.LessonPlan.DeletePlan)
	plans.GET("/:id/progress", h.LessonPlan.Progress)
	plans.PUT("/:id/entries/:entryId/teacher", h.LessonPlan.AssignTeacher)
	plans.POST("/:id/entries/:entryId/no-class", h.LessonPlan.MarkNoClass)
	plans.DELETE("/:id/entries/:entryId/no-class", h.LessonPlan.UnmarkNoClass)

	attendance := g.Group("attendance", "/plans/:id/attendance").Use(middleware.RequireRoleForWrites(schoolTeachers...))
	attendance.PUT("", h.LessonPlan.RecordAttendance).Describe("Replace the roll of one lesson date")
	attendance.GET("", h.LessonPlan.LessonAttendance)
	attendance.GET("/overview", h.LessonPlan.AttendanceOverview)
	return g
}

func storeRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("store", "/store")

	products := g.Group("catalog", "/products").Use(middleware.RequireRoleForWrites(adminOnly...))
	products.GET("", h.Store.ListProducts)
	products.GET("/:id", h.Store.GetProduct)
	products.POST("", h.Store.CreateProduct)
	products.PUT("/:id", h.Store.UpdateProduct)
	products.POST("/:id/restock", h.Store.Restock)
	products.PUT("/:id/active", h.Store.SetActive)

	cart := g.Group("cart", "/cart")
	cart.GET("", h.Store.GetCart)
	cart.DELETE("", h.Store.ClearCart)
	cart.POST("/items", h.Store.AddItem)
	cart.PUT("/items/:productId", h.Store.UpdateItem)
	cart.DELETE("/items/:productId", h.Store.RemoveItem)
	cart.GET("/shipping", h.Store.QuoteShipping)

	g.POST("/checkout", h.Order.Checkout).Describe("Charge the sandbox gateway and place the order")

	orders := g.Group("orders", "/orders")
	orders.GET("", h.Order.ListOrders)
	orders.GET("/:id", h.Order.GetOrder)

	fulfilment := g.Group("fulfilment", "/orders").Use(middleware.RequireRole(adminOnly...))
	fulfilment.POST("/:id/confirm-payment", h.Order.ConfirmPayment)
	fulfilment.POST("/:id/ship", h.Order.ShipOrder)
	fulfilment.POST("/:id/cancel", h.Order.CancelOrder).Describe("Cancel and release stock")

	sales := g.Group("sales", "").Use(middleware.RequireRole(adminOnly...))
	sales.POST("/salespeople", h.Sales.AddSalesperson)
	sales.GET("/salespeople", h.Sales.ListSalespeople)
	sales.POST("/leads", h.Sales.OpenLead)
	sales.GET("/leads", h.Sales.ListLeads)
	sales.PUT("/leads/:id", h.Sales.AdvanceLead)
	return g
}
