package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	appHTTP "github.com/subhashadhikari057/hrm-fyp-sub000/internal/handler/http"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/cron"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/jwt"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/repository/postgresql"
	attendanceService "github.com/subhashadhikari057/hrm-fyp-sub000/internal/service/attendance"
	leaveService "github.com/subhashadhikari057/hrm-fyp-sub000/internal/service/leave"
	regularizationService "github.com/subhashadhikari057/hrm-fyp-sub000/internal/service/regularization"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	loc, err := timeutil.ParseOffset(cfg.Attendance.UTCOffset)
	if err != nil {
		fmt.Println("Error parsing organization UTC offset:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	workShiftRepo := postgresql.NewWorkShiftRepository(db)
	attendanceDayRepo := postgresql.NewAttendanceDayRepository(db)
	attendanceLogRepo := postgresql.NewAttendanceLogRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		cfg.Attendance, loc,
		attendanceDayRepo, attendanceLogRepo,
		employeeRepo, workShiftRepo, companyRepo,
	)
	regularizationSvc := regularizationService.NewRegularizationService(
		db, cfg.Attendance, loc,
		regularizationRepo, attendanceDayRepo,
		employeeRepo, workShiftRepo, companyRepo,
	)
	leaveSvc := leaveService.NewLeaveService(
		db, cfg.Attendance, loc,
		leaveRequestRepo, leaveTypeRepo, attendanceDayRepo,
		employeeRepo, companyRepo,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	regularizationHandler := appHTTP.NewRegularizationHandler(regularizationSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceSvc, employeeRepo, cfg.Attendance, loc)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, cfg.App, attendanceHandler, regularizationHandler, leaveHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server starting on port %d\n", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
}
