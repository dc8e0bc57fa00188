package commands

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "coop-lending/internal/adapter/http"
	"coop-lending/internal/adapter/repository/gormrepo"
	"coop-lending/internal/config"
	"coop-lending/internal/infrastructure/logger"
	guarantoruc "coop-lending/internal/usecase/guarantor"
	loanuc "coop-lending/internal/usecase/loan"
	scheduleuc "coop-lending/internal/usecase/schedule"
)

// App holds the usecases wired on one database.
type App struct {
	DB         *gorm.DB
	Log        *zap.Logger
	Loans      *loanuc.Usecase
	Guarantors *guarantoruc.Usecase
	Schedule   *scheduleuc.Usecase
}

func NewApp(cfg *config.Config, db *gorm.DB, log *zap.Logger) *App {
	tx := gormrepo.NewGormUoW(db)
	return &App{
		DB:  db,
		Log: log,
		Loans: loanuc.NewUsecase(gormrepo.NewLoanRepository(db), tx, loanuc.Options{
			ProcessingFee:      cfg.Loan.ProcessingFee,
			DefaultMonthlyRate: cfg.Loan.DefaultMonthlyRate,
		}, log),
		Guarantors: guarantoruc.NewUsecase(tx, log),
		Schedule:   scheduleuc.NewUsecase(tx, cfg.Schedule.BatchSize, log),
	}
}

// Echo builds the HTTP server. /health pings the database and, when rdb is
// set, redis. mw wraps every API route (not /health).
func (a *App) Echo(rdb *redis.Client, mw ...echo.MiddlewareFunc) *echo.Echo {
	checks := map[string]httpadp.Check{"database": httpadp.DatabaseCheck(a.DB)}
	if rdb != nil {
		checks["redis"] = httpadp.RedisCheck(rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), logger.EchoRequestLogger(a.Log))

	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(a.Log, checks),
		Loans:     httpadp.NewLoanHandler(a.Loans, a.Log),
		Guarantor: httpadp.NewGuarantorHandler(a.Guarantors, a.Log),
		Schedule:  httpadp.NewScheduleHandler(a.Schedule, a.Log),
	}, mw...)
	return e
}
