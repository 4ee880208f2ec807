package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/mongodb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	ctx := context.Background()

	db, err := mongodb.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = mongodb.Close(ctx, db); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	if err = mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal(fmt.Sprintf("ensuring indexes: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := mongodb.NewUserRepository(db)
	stdRepo := mongodb.NewStudentRepository(db)
	tchRepo := mongodb.NewTeacherRepository(db)
	clsRepo := mongodb.NewClassRepository(db)
	attRepo := mongodb.NewAttendanceRepository(db)
	asgRepo := mongodb.NewAssignmentRepository(db)
	grdRepo := mongodb.NewGradeRepository(db)
	annRepo := mongodb.NewAnnouncementRepository(db)

	usrSvc := user.NewService(conf, usrRepo, mailSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:   conf,
		Logger: logger,

		UserSvc:         usrSvc,
		StudentSvc:      student.NewService(stdRepo),
		TeacherSvc:      teacher.NewService(tchRepo),
		ClassSvc:        school.NewService(clsRepo),
		AttendanceSvc:   attendance.NewService(conf, attRepo, stdRepo, usrRepo, mailSvc),
		AssignmentSvc:   assignment.NewService(asgRepo),
		GradeSvc:        grade.NewService(conf, grdRepo, stdRepo, usrRepo, asgRepo, mailSvc),
		AnnouncementSvc: announcement.NewService(conf, annRepo, usrRepo, mailSvc),

		Authenticator: auth.NewAuthenticator(conf, usrSvc, logger),
		Authorizer:    auth.NewAuthorizer(stdRepo, tchRepo, clsRepo),
	})

	// =========================================================================
	// Start API Service

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		sctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(sctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
