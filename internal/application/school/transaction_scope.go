package school

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/school"
)

// TransactionScope runs a function inside one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories written by the onboarding wizard
type TransactionalRepositories interface {
	Magazines() school.MagazineRepository
	Classrooms() school.ClassroomRepository
	LessonPlans() school.LessonPlanRepository
}
