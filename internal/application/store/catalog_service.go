package store

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the global product catalog
type CatalogService struct {
	productRepo store.ProductRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(productRepo store.ProductRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{productRepo: productRepo, logger: logger}
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	product, err := store.NewProduct(req.SKU, req.Name, req.Price, req.WeightGrams)
	if err != nil {
		return nil, err
	}
	exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_IN_USE", "A product with this SKU already exists")
	}
	if err := product.Update(req.Name, req.Description, req.Price, req.WeightGrams); err != nil {
		return nil, err
	}
	if req.MagazineID != nil {
		product.LinkMagazine(*req.MagazineID)
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns a product
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts lists the catalog by name. Inactive products are only listed on request.
func (s *CatalogService) ListProducts(ctx context.Context, q ProductListQuery) ([]ProductResponse, int64, error) {
	filter := store.ProductFilter{Filter: shared.DefaultFilter(), ActiveOnly: !q.IncludeInactive}
	filter.Search = q.Search
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.MagazineID != "" {
		id, err := uuid.Parse(q.MagazineID)
		if err != nil {
			return nil, 0, shared.ErrInvalidInput
		}
		filter.MagazineID = &id
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, total, nil
}

// UpdateProduct changes name, description, price and weight. The SKU is immutable.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.Price, req.WeightGrams); err != nil {
		return nil, err
	}
	if req.MagazineID != nil {
		product.LinkMagazine(*req.MagazineID)
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Restock adds units to a product
func (s *CatalogService) Restock(ctx context.Context, id uuid.UUID, req RestockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Restock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product restocked",
		zap.String("sku", product.SKU),
		zap.Int("added", req.Quantity),
		zap.Int("stock", product.Stock))
	resp := ToProductResponse(product)
	return &resp, nil
}

// SetActive puts a product on sale or hides it
func (s *CatalogService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}
