package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	ctx := context.Background()

	// set up DB
	db, err := mongodb.Open(ctx, conf)
	errAndDie(err)
	defer func() { errAndDie(mongodb.Close(ctx, db)) }()

	// start CLI
	cli := commandLine{
		conf:    conf,
		db:      db,
		usrRepo: mongodb.NewUserRepository(db),
		stdRepo: mongodb.NewStudentRepository(db),
		tchRepo: mongodb.NewTeacherRepository(db),
		clsRepo: mongodb.NewClassRepository(db),
		asgRepo: mongodb.NewAssignmentRepository(db),
		attRepo: mongodb.NewAttendanceRepository(db),
		grdRepo: mongodb.NewGradeRepository(db),
		annRepo: mongodb.NewAnnouncementRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
