package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coop-lending/internal/domain/loan"
	loanuc "coop-lending/internal/usecase/loan"
)

type LoanHandler struct {
	uc  *loanuc.Usecase
	log *zap.Logger
}

func NewLoanHandler(uc *loanuc.Usecase, log *zap.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log.Named("http.loan")}
}

type createLoanReq struct {
	MemberID         string          `json:"member_id"         validate:"required,hex32"`
	Amount           decimal.Decimal `json:"amount"            validate:"gt=0,dec2"`
	Purpose          string          `json:"purpose"           validate:"required,max=1000"`
	TermMonths       int             `json:"term_months"       validate:"gte=1,lte=360"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"    validate:"gte=0,dec2"`
	IncomeSource     string          `json:"income_source"     validate:"max=64"`
	DisbursementMode string          `json:"disbursement_mode" validate:"omitempty,oneof=NET GROSS net gross"`
	BranchID         *string         `json:"branch_id"         validate:"omitempty,hex32"`
}

type approveLoanReq struct {
	Comment string `json:"comment" validate:"max=1000"`
}

type disburseLoanReq struct {
	ArrearsDeducted decimal.Decimal `json:"arrears_deducted" validate:"gte=0,dec2"`
	SavingsDeducted decimal.Decimal `json:"savings_deducted" validate:"gte=0,dec2"`
	SharesDeducted  decimal.Decimal `json:"shares_deducted"  validate:"gte=0,dec2"`
	Comment         string          `json:"comment"          validate:"max=1000"`
}

type updateStatusReq struct {
	Status  string `json:"status"  validate:"required"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	l, err := h.uc.Create(c.Request().Context(), loanuc.CreateLoanInput(req))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	loans, err := h.uc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return fail(c, h.log, err)
	}
	if loans == nil {
		loans = []loan.Loan{}
	}
	return c.JSON(http.StatusOK, loans)
}

// loanView is a loan plus the statuses an officer may move it to next.
type loanView struct {
	*loan.Loan
	AllowedTransitions []loan.Status `json:"allowed_transitions"`
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, loanView{Loan: l, AllowedTransitions: loan.NextStatuses(l.Status)})
}

func (h *LoanHandler) ApproveLoan(c echo.Context) error {
	actor, ok, err := requireActor(c)
	if !ok {
		return err
	}
	var req approveLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	l, err := h.uc.Approve(c.Request().Context(), loanuc.ApproveInput{
		LoanID:     c.Param("loan_id"),
		ApproverID: actor,
		Comment:    req.Comment,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) DisburseLoan(c echo.Context) error {
	actor, ok, err := requireActor(c)
	if !ok {
		return err
	}
	var req disburseLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.Disburse(c.Request().Context(), loanuc.DisburseInput{
		LoanID:          c.Param("loan_id"),
		DisburserID:     actor,
		ArrearsDeducted: req.ArrearsDeducted,
		SavingsDeducted: req.SavingsDeducted,
		SharesDeducted:  req.SharesDeducted,
		Comment:         req.Comment,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	actor, ok, err := requireActor(c)
	if !ok {
		return err
	}
	var req updateStatusReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.UpdateStatus(c.Request().Context(), loanuc.UpdateStatusInput{
		LoanID:  c.Param("loan_id"),
		ActorID: actor,
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
