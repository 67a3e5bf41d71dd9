package persistence

import (
	"context"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements store.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several products at once
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Product, error) {
	if len(ids) == 0 {
		return []store.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return products(rows), nil
}

// FindAll lists catalog products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter store.ProductFilter) ([]store.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.MagazineID != nil {
		query = query.Where("magazine_id = ?", *filter.MagazineID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ProductModel
	if err := paginate(query, filter.Filter, productSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return products(rows), total, nil
}

func products(rows []models.ProductModel) []store.Product {
	out := make([]store.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// ExistsBySKU reports whether a product already uses the SKU
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *store.Product) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error)
}

// DecrementStock atomically removes qty units, failing with ErrInsufficientStock
// when fewer are left
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidInput
	}
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock - ?", qty),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// GormCartRepository implements store.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser loads the cart of a user with its lines in insertion order
func (r *GormCartRepository) FindByUser(ctx context.Context, churchID, userID uuid.UUID) (*store.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("church_id = ? AND user_id = ?", churchID, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save writes the cart and replaces all of its lines
func (r *GormCartRepository) Save(ctx context.Context, cart *store.Cart) error {
	model := models.CartModelFromDomain(cart)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", model.ID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// GormOrderRepository implements store.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByID finds an order within a church
func (r *GormOrderRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*store.Order, error) {
	var model models.OrderModel
	if err := r.withItems(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its public number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*store.Order, error) {
	var model models.OrderModel
	if err := r.withItems(ctx).Where("number = ?", strings.ToUpper(strings.TrimSpace(number))).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the orders of a church, newest first by default
func (r *GormOrderRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter store.OrderFilter) ([]store.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("church_id = ?", churchID)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(number) LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.OrderModel
	query = query.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if err := paginate(query, filter.Filter, orderSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]store.Order, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// CountByNumberPrefix counts orders whose number starts with the prefix
func (r *GormOrderRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// Save writes the order and upserts its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *store.Order) error {
	model := models.OrderModelFromDomain(order)
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// GormSalesRepository implements store.SalesRepository using GORM
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

// FindSalespeople lists the sales team by name
func (r *GormSalesRepository) FindSalespeople(ctx context.Context) ([]store.Salesperson, error) {
	var rows []models.SalespersonModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]store.Salesperson, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SaveSalesperson creates or updates a salesperson
func (r *GormSalesRepository) SaveSalesperson(ctx context.Context, s *store.Salesperson) error {
	return translateError(r.db.WithContext(ctx).Save(models.SalespersonModelFromDomain(s)).Error)
}

// ExistsActiveSalesperson matches an active salesperson by email
func (r *GormSalesRepository) ExistsActiveSalesperson(ctx context.Context, email string) (bool, error) {
	return NewGormSignalLookup(r.db).IsSalesperson(ctx, email)
}

// FindLeads lists reactivation leads, optionally by status
func (r *GormSalesRepository) FindLeads(ctx context.Context, status store.LeadStatus) ([]store.ReactivationLead, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var rows []models.ReactivationLeadModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]store.ReactivationLead, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindLeadByID finds a reactivation lead
func (r *GormSalesRepository) FindLeadByID(ctx context.Context, id uuid.UUID) (*store.ReactivationLead, error) {
	var model models.ReactivationLeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveLead creates or updates a reactivation lead
func (r *GormSalesRepository) SaveLead(ctx context.Context, lead *store.ReactivationLead) error {
	return r.db.WithContext(ctx).Save(models.ReactivationLeadModelFromDomain(lead)).Error
}

// ExistsOpenLead reports whether an unresolved lead exists for the email
func (r *GormSalesRepository) ExistsOpenLead(ctx context.Context, email string) (bool, error) {
	return NewGormSignalLookup(r.db).IsReactivationLead(ctx, email)
}

var (
	_ store.ProductRepository = (*GormProductRepository)(nil)
	_ store.CartRepository    = (*GormCartRepository)(nil)
	_ store.OrderRepository   = (*GormOrderRepository)(nil)
	_ store.SalesRepository   = (*GormSalesRepository)(nil)
)
