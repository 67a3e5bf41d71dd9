package persistence

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deleteOwned removes a church-owned row and reports ErrNotFound when nothing matched
func deleteOwned(ctx context.Context, db *gorm.DB, model any, churchID, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(model, "church_id = ? AND id = ?", churchID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormClassroomRepository implements school.ClassroomRepository using GORM
type GormClassroomRepository struct {
	db *gorm.DB
}

// NewGormClassroomRepository creates a new GormClassroomRepository
func NewGormClassroomRepository(db *gorm.DB) *GormClassroomRepository {
	return &GormClassroomRepository{db: db}
}

func (r *GormClassroomRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Classroom, error) {
	var model models.ClassroomModel
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormClassroomRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Classroom, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClassroomModel{}).Where("church_id = ?", churchID)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ClassroomModel
	if err := paginate(query, filter, schoolSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]school.Classroom, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormClassroomRepository) Save(ctx context.Context, classroom *school.Classroom) error {
	return r.db.WithContext(ctx).Save(models.ClassroomModelFromDomain(classroom)).Error
}

func (r *GormClassroomRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.ClassroomModel{}, churchID, id)
}

// GormMagazineRepository implements school.MagazineRepository using GORM
type GormMagazineRepository struct {
	db *gorm.DB
}

// NewGormMagazineRepository creates a new GormMagazineRepository
func NewGormMagazineRepository(db *gorm.DB) *GormMagazineRepository {
	return &GormMagazineRepository{db: db}
}

func (r *GormMagazineRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Magazine, error) {
	var model models.MagazineModel
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormMagazineRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Magazine, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MagazineModel{}).Where("church_id = ?", churchID)
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(filter.Search))
	}
	if quarter, ok := filter.Filters["quarter"].(string); ok && quarter != "" {
		query = query.Where("quarter = ?", quarter)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.MagazineModel
	if err := paginate(query, filter, schoolSortFields, "quarter").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]school.Magazine, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormMagazineRepository) Save(ctx context.Context, magazine *school.Magazine) error {
	return r.db.WithContext(ctx).Save(models.MagazineModelFromDomain(magazine)).Error
}

func (r *GormMagazineRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.MagazineModel{}, churchID, id)
}

// GormStudentRepository implements school.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

func (r *GormStudentRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Student, error) {
	var model models.StudentModel
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByClassroom lists the active students of a classroom by name
func (r *GormStudentRepository) FindByClassroom(ctx context.Context, churchID, classroomID uuid.UUID) ([]school.Student, error) {
	var rows []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND classroom_id = ? AND is_active = ?", churchID, classroomID, true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return students(rows), nil
}

func (r *GormStudentRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentModel{}).Where("church_id = ?", churchID)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if classroomID, ok := filter.Filters["classroom_id"].(uuid.UUID); ok {
		query = query.Where("classroom_id = ?", classroomID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.StudentModel
	if err := paginate(query, filter, schoolSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return students(rows), total, nil
}

func students(rows []models.StudentModel) []school.Student {
	out := make([]school.Student, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

func (r *GormStudentRepository) ExistsForUserEmail(ctx context.Context, churchID uuid.UUID, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StudentModel{}).
		Where("church_id = ? AND LOWER(email) = ? AND is_active = ?", churchID, email, true).
		Count(&count).Error
	return count > 0, err
}

func (r *GormStudentRepository) Save(ctx context.Context, student *school.Student) error {
	return r.db.WithContext(ctx).Save(models.StudentModelFromDomain(student)).Error
}

func (r *GormStudentRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.StudentModel{}, churchID, id)
}

// GormTeacherRepository implements school.TeacherRepository using GORM
type GormTeacherRepository struct {
	db *gorm.DB
}

// NewGormTeacherRepository creates a new GormTeacherRepository
func NewGormTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{db: db}
}

func (r *GormTeacherRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Teacher, error) {
	var model models.TeacherModel
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormTeacherRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Teacher, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TeacherModel{}).Where("church_id = ?", churchID)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.TeacherModel
	if err := paginate(query, filter, schoolSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]school.Teacher, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormTeacherRepository) ExistsForUser(ctx context.Context, churchID, userID uuid.UUID, email string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.TeacherModel{}).
		Where("church_id = ? AND is_active = ?", churchID, true)
	if email = normalizeEmail(email); email != "" {
		query = query.Where("user_id = ? OR LOWER(email) = ?", userID, email)
	} else {
		query = query.Where("user_id = ?", userID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *GormTeacherRepository) Save(ctx context.Context, teacher *school.Teacher) error {
	return r.db.WithContext(ctx).Save(models.TeacherModelFromDomain(teacher)).Error
}

func (r *GormTeacherRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.TeacherModel{}, churchID, id)
}

// GormLessonPlanRepository implements school.LessonPlanRepository using GORM
type GormLessonPlanRepository struct {
	db *gorm.DB
}

// NewGormLessonPlanRepository creates a new GormLessonPlanRepository
func NewGormLessonPlanRepository(db *gorm.DB) *GormLessonPlanRepository {
	return &GormLessonPlanRepository{db: db}
}

func (r *GormLessonPlanRepository) withEntries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("lesson_number ASC")
	})
}

func (r *GormLessonPlanRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.LessonPlan, error) {
	var model models.LessonPlanModel
	if err := r.withEntries(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormLessonPlanRepository) FindByClassroom(ctx context.Context, churchID, classroomID uuid.UUID) ([]school.LessonPlan, error) {
	var rows []models.LessonPlanModel
	if err := r.withEntries(ctx).
		Where("church_id = ? AND classroom_id = ?", churchID, classroomID).
		Order("start_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return lessonPlans(rows), nil
}

func (r *GormLessonPlanRepository) FindOverlapping(ctx context.Context, churchID, classroomID uuid.UUID, from, to time.Time) ([]school.LessonPlan, error) {
	var rows []models.LessonPlanModel
	if err := r.withEntries(ctx).
		Where("church_id = ? AND classroom_id = ? AND start_date <= ? AND end_date >= ?", churchID, classroomID, to, from).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return lessonPlans(rows), nil
}

func lessonPlans(rows []models.LessonPlanModel) []school.LessonPlan {
	out := make([]school.LessonPlan, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Save writes the plan and upserts its roster entries in one transaction
func (r *GormLessonPlanRepository) Save(ctx context.Context, plan *school.LessonPlan) error {
	model := models.LessonPlanModelFromDomain(plan)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(model.Entries))
		for i := range model.Entries {
			model.Entries[i].LessonPlanID = model.ID
			ids[i] = model.Entries[i].ID
		}
		stale := tx.Where("lesson_plan_id = ?", model.ID)
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.RosterEntryModel{}).Error; err != nil {
			return err
		}
		for i := range model.Entries {
			if err := tx.Save(&model.Entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormLessonPlanRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwned(ctx, tx, &models.LessonPlanModel{}, churchID, id); err != nil {
			return err
		}
		if err := tx.Where("lesson_plan_id = ?", id).Delete(&models.RosterEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Where("lesson_plan_id = ?", id).Delete(&models.AttendanceModel{}).Error
	})
}

// GormAttendanceRepository implements school.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// ReplaceForLesson deletes the existing roll call of the lesson and inserts the new one
func (r *GormAttendanceRepository) ReplaceForLesson(ctx context.Context, planID uuid.UUID, lessonDate time.Time, records []school.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_plan_id = ? AND lesson_date = ?", planID, lessonDate).
			Delete(&models.AttendanceModel{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]*models.AttendanceModel, len(records))
		for i := range records {
			rows[i] = models.AttendanceModelFromDomain(&records[i])
		}
		return tx.Create(rows).Error
	})
}

func (r *GormAttendanceRepository) FindByLesson(ctx context.Context, churchID, planID uuid.UUID, lessonDate time.Time) ([]school.AttendanceRecord, error) {
	var rows []models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND lesson_plan_id = ? AND lesson_date = ?", churchID, planID, lessonDate).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return attendance(rows), nil
}

func (r *GormAttendanceRepository) FindByPlan(ctx context.Context, churchID, planID uuid.UUID) ([]school.AttendanceRecord, error) {
	var rows []models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND lesson_plan_id = ?", churchID, planID).
		Order("lesson_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return attendance(rows), nil
}

func attendance(rows []models.AttendanceModel) []school.AttendanceRecord {
	out := make([]school.AttendanceRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var (
	_ school.ClassroomRepository  = (*GormClassroomRepository)(nil)
	_ school.MagazineRepository   = (*GormMagazineRepository)(nil)
	_ school.StudentRepository    = (*GormStudentRepository)(nil)
	_ school.TeacherRepository    = (*GormTeacherRepository)(nil)
	_ school.LessonPlanRepository = (*GormLessonPlanRepository)(nil)
	_ school.AttendanceRepository = (*GormAttendanceRepository)(nil)
)
