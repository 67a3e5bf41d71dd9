package models

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot copies identity and version into a domain aggregate
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity = m.BaseModel.ToDomain()
	a.Version = m.Version
	a.MarkStored()
}

// ChurchAggregateModel provides the fields of church-scoped aggregate roots
type ChurchAggregateModel struct {
	AggregateModel
	ChurchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainChurchAggregateRoot populates ChurchAggregateModel from domain ChurchAggregateRoot
func (m *ChurchAggregateModel) FromDomainChurchAggregateRoot(c shared.ChurchAggregateRoot) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ChurchID = c.ChurchID
	m.CreatedBy = c.CreatedBy
}

// PopulateChurchAggregateRoot populates a domain ChurchAggregateRoot from the model
func (m *ChurchAggregateModel) PopulateChurchAggregateRoot(c *shared.ChurchAggregateRoot) {
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	c.ChurchID = m.ChurchID
	c.CreatedBy = m.CreatedBy
}
