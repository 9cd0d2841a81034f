package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/http/handlers"
	"github.com/spec-kit/trailer-admin/internal/auth"
	"github.com/spec-kit/trailer-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Users         *handlers.UsersHandler
	Staff         *handlers.StaffHandler
	Tasks         *handlers.TasksHandler
	Insurance     *handlers.InsuranceHandler
	Trailers      *handlers.TrailersHandler
	Customers     *handlers.CustomersHandler
	Documents     *handlers.DocumentsHandler
	Authenticator *auth.Authenticator
	Gate          *auth.Gate
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authn := cfg.Authenticator.Handle
	can := cfg.Gate.RequirePermission

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", authn, cfg.Users.Me)
	authGroup.Post("/logout", authn, cfg.Users.Logout)

	users := app.Group("/users", authn)
	users.Get("/pending", can(auth.ResourceUsers, auth.ActionRead), cfg.Users.ListPending)
	users.Get("/", can(auth.ResourceUsers, auth.ActionRead), cfg.Users.List)
	users.Get("/:id", can(auth.ResourceUsers, auth.ActionRead), cfg.Users.Get)
	users.Patch("/:id/approve", can(auth.ResourceUsers, auth.ActionApprove), cfg.Users.Approve)
	users.Patch("/:id/reject", can(auth.ResourceUsers, auth.ActionReject), cfg.Users.Reject)

	staff := app.Group("/staff", authn)
	staff.Get("/", can(auth.ResourceStaff, auth.ActionRead), cfg.Staff.List)
	staff.Post("/", can(auth.ResourceStaff, auth.ActionCreate), cfg.Staff.Create)
	staff.Get("/:id", can(auth.ResourceStaff, auth.ActionRead), cfg.Staff.Get)
	staff.Put("/:id", can(auth.ResourceStaff, auth.ActionUpdate), cfg.Staff.Update)
	staff.Delete("/:id", can(auth.ResourceStaff, auth.ActionDelete), cfg.Staff.Delete)

	tasks := app.Group("/tasks", authn)
	tasks.Get("/", can(auth.ResourceTasks, auth.ActionRead), cfg.Tasks.List)
	tasks.Post("/", can(auth.ResourceTasks, auth.ActionCreate), cfg.Tasks.Create)
	tasks.Get("/:id", can(auth.ResourceTasks, auth.ActionRead), cfg.Tasks.Get)
	tasks.Put("/:id", can(auth.ResourceTasks, auth.ActionUpdate), cfg.Tasks.Update)
	tasks.Patch("/:id/status", can(auth.ResourceTasks, auth.ActionUpdate), cfg.Tasks.UpdateStatus)
	tasks.Delete("/:id", can(auth.ResourceTasks, auth.ActionDelete), cfg.Tasks.Delete)

	insurance := app.Group("/insurance", authn)
	insurance.Get("/", can(auth.ResourceInsurance, auth.ActionRead), cfg.Insurance.List)
	insurance.Post("/", can(auth.ResourceInsurance, auth.ActionCreate), cfg.Insurance.Create)
	insurance.Get("/stats", can(auth.ResourceInsurance, auth.ActionRead), cfg.Insurance.Stats)
	insurance.Post("/reminders/run", cfg.Gate.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Insurance.SendReminders)
	insurance.Get("/:id", can(auth.ResourceInsurance, auth.ActionRead), cfg.Insurance.Get)
	insurance.Put("/:id", can(auth.ResourceInsurance, auth.ActionUpdate), cfg.Insurance.Update)
	insurance.Delete("/:id", can(auth.ResourceInsurance, auth.ActionDelete), cfg.Insurance.Delete)
	insurance.Patch("/:id/cancel", can(auth.ResourceInsurance, auth.ActionUpdate), cfg.Insurance.Cancel)
	insurance.Patch("/:id/verify", can(auth.ResourceInsurance, auth.ActionApprove), cfg.Insurance.Verify)
	insurance.Patch("/:id/reject", can(auth.ResourceInsurance, auth.ActionReject), cfg.Insurance.Reject)
	insurance.Patch("/:id/request-update", can(auth.ResourceInsurance, auth.ActionUpdate), cfg.Insurance.RequestUpdate)
	insurance.Post("/:id/documents", can(auth.ResourceInsurance, auth.ActionUpdate), cfg.Insurance.AttachDocument)
	insurance.Patch("/:id/docusign", can(auth.ResourceInsurance, auth.ActionUpdate), cfg.Insurance.LinkDocuSign)
	insurance.Patch("/:id/notified", can(auth.ResourceInsurance, auth.ActionUpdate), cfg.Insurance.MarkNotified)

	trailers := app.Group("/trailers", authn)
	trailers.Get("/", can(auth.ResourceTrailers, auth.ActionRead), cfg.Trailers.List)
	trailers.Post("/", can(auth.ResourceTrailers, auth.ActionCreate), cfg.Trailers.Create)
	trailers.Get("/:id", can(auth.ResourceTrailers, auth.ActionRead), cfg.Trailers.Get)
	trailers.Put("/:id", can(auth.ResourceTrailers, auth.ActionUpdate), cfg.Trailers.Update)
	trailers.Delete("/:id", can(auth.ResourceTrailers, auth.ActionDelete), cfg.Trailers.Delete)
	trailers.Post("/:id/lease", can(auth.ResourceTrailers, auth.ActionUpdate), cfg.Trailers.Lease)
	trailers.Post("/:id/return", can(auth.ResourceTrailers, auth.ActionUpdate), cfg.Trailers.Return)

	customers := app.Group("/customers", authn)
	customers.Get("/", can(auth.ResourceCustomers, auth.ActionRead), cfg.Customers.List)
	customers.Post("/", can(auth.ResourceCustomers, auth.ActionCreate), cfg.Customers.Create)
	customers.Get("/:id", can(auth.ResourceCustomers, auth.ActionRead), cfg.Customers.Get)
	customers.Put("/:id", can(auth.ResourceCustomers, auth.ActionUpdate), cfg.Customers.Update)
	customers.Delete("/:id", can(auth.ResourceCustomers, auth.ActionDelete), cfg.Customers.Delete)

	documents := app.Group("/documents", authn)
	documents.Get("/", can(auth.ResourceDocuments, auth.ActionRead), cfg.Documents.List)
	documents.Post("/", can(auth.ResourceDocuments, auth.ActionCreate), cfg.Documents.Upload)
	documents.Get("/:id", can(auth.ResourceDocuments, auth.ActionRead), cfg.Documents.Get)
	documents.Get("/:id/download", can(auth.ResourceDocuments, auth.ActionRead), cfg.Documents.Download)
	documents.Delete("/:id", can(auth.ResourceDocuments, auth.ActionDelete), cfg.Documents.Delete)
}
