package grade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/grade"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

func newTestService() grade.Service {
	conf := &core.Config{TestMode: true, AppName: "Shule"}
	db, _ := dummydb.Open()
	return grade.NewService(
		conf,
		dummydb.NewGradeRepository(db),
		dummydb.NewStudentRepository(db),
		dummydb.NewUserRepository(db),
		dummydb.NewAssignmentRepository(db),
		nil,
	)
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	grd, err := svc.Record(ctx, grade.RecordGrade{
		StudentID:    "std1",
		AssignmentID: "asg1",
		PointsEarned: 40,
		MaxPoints:    50,
		GradedBy:     "usr-t1",
		Comments:     "good work",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(80), grd.Percentage)
	assert.Equal(t, "B", grd.Letter())

	// regrading replaces the record and recomputes the percentage
	regraded, err := svc.Record(ctx, grade.RecordGrade{
		StudentID:    "std1",
		AssignmentID: "asg1",
		PointsEarned: 45,
		MaxPoints:    50,
		GradedBy:     "usr-t1",
	})
	require.NoError(t, err)
	assert.Equal(t, grd.ID, regraded.ID, "regrading must not create a second record")
	assert.Equal(t, float64(90), regraded.Percentage)

	grades, err := svc.QueryByStudent(ctx, "std1")
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, float64(45), grades[0].PointsEarned)
}

func TestService_StudentAverage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	avg, err := svc.StudentAverage(ctx, "std1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), avg, "no grades yet")

	for _, rg := range []grade.RecordGrade{
		{StudentID: "std1", AssignmentID: "asg1", PointsEarned: 90, MaxPoints: 100, GradedBy: "usr-t1"},
		{StudentID: "std1", AssignmentID: "asg2", PointsEarned: 35, MaxPoints: 50, GradedBy: "usr-t1"},
		{StudentID: "std2", AssignmentID: "asg1", PointsEarned: 10, MaxPoints: 100, GradedBy: "usr-t1"},
	} {
		_, err = svc.Record(ctx, rg)
		require.NoError(t, err)
	}

	// (90 + 70) / 2; std2 does not contribute
	avg, err = svc.StudentAverage(ctx, "std1")
	require.NoError(t, err)
	assert.Equal(t, float64(80), avg)
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A+"},
		{95, "A+"},
		{94.9, "A"},
		{90, "A"},
		{89.9, "B+"},
		{85, "B+"},
		{84.9, "B"},
		{80, "B"},
		{79.9, "C+"},
		{75, "C+"},
		{74.9, "C"},
		{70, "C"},
		{69.9, "D"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, grade.LetterGrade(tt.pct), "LetterGrade(%v)", tt.pct)
	}
}
