package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Loans     *LoanHandler
	Guarantor *GuarantorHandler
	Schedule  *ScheduleHandler
}

// Register mounts every route on e. Mutating routes run behind mw (idempotency).
func Register(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	g := e.Group("", mw...)

	g.POST("/loans", h.Loans.CreateLoan)
	g.GET("/loans", h.Loans.ListLoans)
	g.GET("/loans/:loan_id", h.Loans.GetLoan)
	g.POST("/loans/:loan_id/approve", h.Loans.ApproveLoan)
	g.POST("/loans/:loan_id/disburse", h.Loans.DisburseLoan)
	g.PATCH("/loans/:loan_id/status", h.Loans.UpdateStatus)

	g.POST("/loans/:loan_id/guarantors", h.Guarantor.AddGuarantor)
	g.GET("/loans/:loan_id/guarantors", h.Guarantor.ListGuarantors)
	g.GET("/loans/:loan_id/guarantors/eligible", h.Guarantor.ListEligible)
	g.POST("/loans/:loan_id/guarantors/:guarantor_id/decision", h.Guarantor.Decide)
	g.DELETE("/loans/:loan_id/guarantors/:guarantor_id", h.Guarantor.RemoveGuarantor)
	g.GET("/members/:member_id/exposure", h.Guarantor.MemberExposure)

	g.POST("/loans/:loan_id/schedule", h.Schedule.GenerateSchedule)
	g.GET("/loans/:loan_id/schedule", h.Schedule.GetSchedule)
	g.GET("/loans/:loan_id/schedule/summary", h.Schedule.GetSummary)
	g.POST("/schedules/advance", h.Schedule.AdvanceStatuses)
}
