package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/staffly/hrm-backend-go/internal/config"
	appHTTP "github.com/staffly/hrm-backend-go/internal/handler/http"
	"github.com/staffly/hrm-backend-go/internal/pkg/cron"
	"github.com/staffly/hrm-backend-go/internal/pkg/database"
	"github.com/staffly/hrm-backend-go/internal/pkg/jwt"
	"github.com/staffly/hrm-backend-go/internal/repository/postgresql"
	attendanceService "github.com/staffly/hrm-backend-go/internal/service/attendance"
	leaveService "github.com/staffly/hrm-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	transactor := postgresql.NewTransactor(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	reconciler := attendanceService.NewReconciler(attendanceRepo, employeeRepo, logger)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, reconciler)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, attendanceRepo, employeeRepo, transactor, logger)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	router := appHTTP.NewRouter(cfg, jwtService, attendanceHandler, leaveHandler)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(reconciler).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
