package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	guarantoruc "coop-lending/internal/usecase/guarantor"
)

type GuarantorHandler struct {
	uc  *guarantoruc.Usecase
	log *zap.Logger
}

func NewGuarantorHandler(uc *guarantoruc.Usecase, log *zap.Logger) *GuarantorHandler {
	return &GuarantorHandler{uc: uc, log: log.Named("http.guarantor")}
}

type addGuarantorReq struct {
	GuarantorMemberID string          `json:"guarantor_member_id" validate:"required,hex32"`
	AmountGuaranteed  decimal.Decimal `json:"amount_guaranteed"   validate:"gt=0,dec2"`
}

type decisionReq struct {
	Action        string `json:"action"         validate:"required,oneof=APPROVE DECLINE approve decline"`
	SignatureRef  string `json:"signature_ref"  validate:"max=255"`
	DeclineReason string `json:"decline_reason" validate:"max=1000"`
}

func (h *GuarantorHandler) AddGuarantor(c echo.Context) error {
	var req addGuarantorReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Add(c.Request().Context(), guarantoruc.AddInput{
		LoanID:            c.Param("loan_id"),
		GuarantorMemberID: req.GuarantorMemberID,
		AmountGuaranteed:  req.AmountGuaranteed,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *GuarantorHandler) ListGuarantors(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GuarantorHandler) ListEligible(c echo.Context) error {
	out, err := h.uc.Eligible(c.Request().Context(), c.Param("loan_id"), c.QueryParam("search"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Decide accepts an optional actor; when present it must be the guarantor.
func (h *GuarantorHandler) Decide(c echo.Context) error {
	var req decisionReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Decide(c.Request().Context(), guarantoruc.DecisionInput{
		LoanID:         c.Param("loan_id"),
		GuarantorID:    c.Param("guarantor_id"),
		Action:         req.Action,
		SignatureRef:   req.SignatureRef,
		DeclineReason:  req.DeclineReason,
		ActingMemberID: actorID(c),
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GuarantorHandler) RemoveGuarantor(c echo.Context) error {
	if err := h.uc.Remove(c.Request().Context(), c.Param("loan_id"), c.Param("guarantor_id")); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GuarantorHandler) MemberExposure(c echo.Context) error {
	out, err := h.uc.Exposure(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
