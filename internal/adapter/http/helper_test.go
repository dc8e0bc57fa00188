package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coop-lending/internal/adapter/middleware"
	"coop-lending/internal/adapter/repository/gormrepo"
	"coop-lending/internal/testutil/dbtest"
	guarantoruc "coop-lending/internal/usecase/guarantor"
	loanuc "coop-lending/internal/usecase/loan"
	scheduleuc "coop-lending/internal/usecase/schedule"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func testLoanOptions() loanuc.Options {
	return loanuc.Options{ProcessingFee: decimal.NewFromInt(300), DefaultMonthlyRate: decimal.NewFromInt(1)}
}

// newServer wires every route against a fresh sqlite database.
func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	log := zap.NewNop()
	tx := gormrepo.NewGormUoW(db)

	e := newEchoWithValidator()
	Register(e, Handlers{
		Health:    NewHandler(log, map[string]Check{"database": DatabaseCheck(db)}),
		Loans:     NewLoanHandler(loanuc.NewUsecase(gormrepo.NewLoanRepository(db), tx, testLoanOptions(), log), log),
		Guarantor: NewGuarantorHandler(guarantoruc.NewUsecase(tx, log), log),
		Schedule:  NewScheduleHandler(scheduleuc.NewUsecase(tx, 100, log), log),
	})
	return e, db
}

func do(e *echo.Echo, method, path string, body any, actor string) *httptest.ResponseRecorder {
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, mustJSON(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if actor != "" {
		req.Header.Set(middleware.HeaderActorID, actor)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
}
