package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type schoolFixture struct {
	churchID  uuid.UUID
	classroom *school.Classroom
	magazine  *school.Magazine
}

func newSchoolFixture(t *testing.T, db *gorm.DB) schoolFixture {
	t.Helper()
	ctx := context.Background()
	churchID := uuid.New()

	classroom, err := school.NewClassroom(churchID, "Jovens", time.Sunday)
	require.NoError(t, err)
	require.NoError(t, NewGormClassroomRepository(db).Save(ctx, classroom))

	magazine, err := school.NewMagazine(churchID, "Lições Bíblicas", "2025-Q1", school.AudienceYouth, 0)
	require.NoError(t, err)
	magazine.LessonTitles = []string{"A Criação", "A Queda"}
	require.NoError(t, NewGormMagazineRepository(db).Save(ctx, magazine))

	return schoolFixture{churchID: churchID, classroom: classroom, magazine: magazine}
}

func TestGormMagazineRepository_LessonTitles(t *testing.T) {
	db := setupTestDB(t)
	f := newSchoolFixture(t, db)

	found, err := NewGormMagazineRepository(db).FindByID(context.Background(), f.churchID, f.magazine.ID)
	require.NoError(t, err)
	assert.Equal(t, school.DefaultLessonCount, found.LessonCount)
	assert.Equal(t, []string{"A Criação", "A Queda"}, found.LessonTitles)
	assert.Equal(t, school.AudienceYouth, found.Audience)
}

func TestGormLessonPlanRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	f := newSchoolFixture(t, db)
	repo := NewGormLessonPlanRepository(db)
	ctx := context.Background()

	plan, err := school.NewLessonPlan(f.churchID, f.classroom, f.magazine, day(2025, time.January, 1), time.Sunday)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, plan))

	found, err := repo.FindByID(ctx, f.churchID, plan.ID)
	require.NoError(t, err)
	require.Len(t, found.Entries, 13)
	assert.Equal(t, 1, found.Entries[0].LessonNumber)
	assert.Equal(t, day(2025, time.January, 5), found.Entries[0].LessonDate.UTC())
	assert.Equal(t, "A Criação", found.Entries[0].LessonTitle)
	assert.Equal(t, 13, found.Entries[12].LessonNumber)
	assert.Equal(t, day(2025, time.March, 30), found.EndDate.UTC())

	t.Run("assign teacher and resave", func(t *testing.T) {
		teacherID := uuid.New()
		require.NoError(t, found.AssignTeacher(found.Entries[2].ID, &teacherID))
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByID(ctx, f.churchID, plan.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Entries, 13)
		require.NotNil(t, reloaded.Entries[2].TeacherID)
		assert.Equal(t, teacherID, *reloaded.Entries[2].TeacherID)
		assert.Nil(t, reloaded.Entries[3].TeacherID)
	})

	t.Run("overlapping plans", func(t *testing.T) {
		overlapping, err := repo.FindOverlapping(ctx, f.churchID, f.classroom.ID, day(2025, time.March, 1), day(2025, time.June, 30))
		require.NoError(t, err)
		assert.Len(t, overlapping, 1)

		overlapping, err = repo.FindOverlapping(ctx, f.churchID, f.classroom.ID, day(2025, time.April, 1), day(2025, time.June, 30))
		require.NoError(t, err)
		assert.Empty(t, overlapping)
	})

	t.Run("wrong church", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New(), plan.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormLessonPlanRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	f := newSchoolFixture(t, db)
	repo := NewGormLessonPlanRepository(db)
	attendance := NewGormAttendanceRepository(db)
	ctx := context.Background()

	plan, err := school.NewLessonPlan(f.churchID, f.classroom, f.magazine, day(2025, time.January, 1), time.Sunday)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, plan))

	records, err := school.TakeRoll(plan, day(2025, time.January, 5), []school.AttendanceInput{
		{StudentID: uuid.New(), Present: true},
	})
	require.NoError(t, err)
	require.NoError(t, attendance.ReplaceForLesson(ctx, plan.ID, day(2025, time.January, 5), records))

	require.NoError(t, repo.Delete(ctx, f.churchID, plan.ID))
	assert.ErrorIs(t, repo.Delete(ctx, f.churchID, plan.ID), shared.ErrNotFound)

	left, err := attendance.FindByPlan(ctx, f.churchID, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestGormAttendanceRepository_ReplaceForLesson(t *testing.T) {
	db := setupTestDB(t)
	f := newSchoolFixture(t, db)
	plans := NewGormLessonPlanRepository(db)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()

	plan, err := school.NewLessonPlan(f.churchID, f.classroom, f.magazine, day(2025, time.January, 1), time.Sunday)
	require.NoError(t, err)
	require.NoError(t, plans.Save(ctx, plan))

	lesson := day(2025, time.January, 12)
	ana, bruno := uuid.New(), uuid.New()

	first, err := school.TakeRoll(plan, lesson, []school.AttendanceInput{
		{StudentID: ana, Present: true, BroughtBible: true, Offering: decimal.NewFromInt(5)},
		{StudentID: bruno, Present: false},
	})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceForLesson(ctx, plan.ID, lesson, first))

	second, err := school.TakeRoll(plan, lesson, []school.AttendanceInput{
		{StudentID: ana, Present: true, BroughtMagazine: true},
	})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceForLesson(ctx, plan.ID, lesson, second))

	records, err := repo.FindByLesson(ctx, f.churchID, plan.ID, lesson)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ana, records[0].StudentID)
	assert.True(t, records[0].BroughtMagazine)
	assert.False(t, records[0].BroughtBible)

	other, err := repo.FindByLesson(ctx, f.churchID, plan.ID, day(2025, time.January, 19))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGormStudentAndTeacherLookups(t *testing.T) {
	db := setupTestDB(t)
	f := newSchoolFixture(t, db)
	students := NewGormStudentRepository(db)
	teachers := NewGormTeacherRepository(db)
	lookup := NewGormSignalLookup(db)
	ctx := context.Background()

	student, err := school.NewStudent(f.churchID, f.classroom.ID, "Lucas")
	require.NoError(t, err)
	student.SetContact("", "Lucas@Igreja.org")
	require.NoError(t, students.Save(ctx, student))

	userID := uuid.New()
	teacher, err := school.NewTeacher(f.churchID, "Marta")
	require.NoError(t, err)
	teacher.LinkUser(userID)
	require.NoError(t, teachers.Save(ctx, teacher))

	inClass, err := students.FindByClassroom(ctx, f.churchID, f.classroom.ID)
	require.NoError(t, err)
	assert.Len(t, inClass, 1)

	ok, err := lookup.IsStudent(ctx, f.churchID, "lucas@igreja.org")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lookup.IsTeacher(ctx, f.churchID, userID, "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lookup.IsTeacher(ctx, f.churchID, uuid.New(), "someone@igreja.org")
	require.NoError(t, err)
	assert.False(t, ok)
}
