package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coop-lending/internal/adapter/middleware"
	"coop-lending/internal/config"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/schedule"
	"coop-lending/internal/testutil/dbtest"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useSQLiteFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coop.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT", "stderr")
	return path
}

func TestMigrateThenAdvance(t *testing.T) {
	path := useSQLiteFile(t)

	out, err := runCLI(t, "migrate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "schema up to date")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	m := dbtest.SeedMember(t, db, "CLI-1")
	l := dbtest.SeedLoan(t, db, m.MemberID, "1000", loan.StatusDisbursed)
	late := &schedule.Installment{
		LoanID:        l.ID,
		InstallmentNo: 1,
		DueDate:       time.Now().UTC().AddDate(0, 0, -10),
		TotalDue:      decimal.RequireFromString("101"),
		PrincipalDue:  decimal.RequireFromString("100"),
		InterestDue:   decimal.RequireFromString("1"),
		BalanceAfter:  decimal.RequireFromString("900"),
		Status:        schedule.StatusPending,
	}
	require.NoError(t, db.Create(late).Error)

	out, err = runCLI(t, "schedule", "advance", "--batch-size", "10")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"to_overdue":1`)
	assert.Contains(t, out, `"changed":1`)

	var got schedule.Installment
	require.NoError(t, db.First(&got, late.ID).Error)
	assert.Equal(t, schedule.StatusOverdue, got.Status)
}

func TestInvalidConfigFailsBeforeRunning(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := runCLI(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestAppEcho_RoutesAndIdempotency(t *testing.T) {
	db := dbtest.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := NewApp(config.Load(), db, zap.NewNop())
	e := app.Echo(rdb, middleware.Idempotency(rdb, time.Minute, zap.NewNop()))

	send := func(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		for k, v := range hdr {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	rec = send(http.MethodPost, "/loans", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "mutations need idempotency headers")

	hdr := map[string]string{
		middleware.HeaderRequestID: strings.Repeat("a", 32),
		middleware.HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
		middleware.HeaderActorID:   strings.Repeat("b", 32),
	}
	first := send(http.MethodPost, "/loans", `{"member_id":"nope"}`, hdr)
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)
	replay := send(http.MethodPost, "/loans", `{"member_id":"nope"}`, hdr)
	assert.Equal(t, first.Code, replay.Code)
	assert.Equal(t, first.Body.String(), replay.Body.String())

	rec = send(http.MethodGet, "/loans", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
