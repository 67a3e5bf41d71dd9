// Command seed fills a development database with a demo church, its admin
// login, fake members and a small store catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	appaccounting "github.com/ecclesia/backend/internal/application/accounting"
	appchurch "github.com/ecclesia/backend/internal/application/church"
	apidentity "github.com/ecclesia/backend/internal/application/identity"
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/infrastructure/auth"
	"github.com/ecclesia/backend/internal/infrastructure/config"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/infrastructure/persistence"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var memberStatuses = []string{"active", "active", "active", "inactive", "transferred"}

var demoProducts = []struct {
	sku    string
	name   string
	price  string
	weight int
}{
	{"REV-ADU-01", "Revista Adultos - Professor", "24.90", 320},
	{"REV-ADU-02", "Revista Adultos - Aluno", "12.50", 180},
	{"REV-JOV-01", "Revista Jovens - Professor", "22.90", 300},
	{"REV-JOV-02", "Revista Jovens - Aluno", "11.90", 170},
	{"REV-INF-01", "Revista Infantil - Professor", "19.90", 280},
	{"BIB-ARC-01", "Bíblia de Estudo Almeida", "149.00", 1250},
}

func main() {
	var (
		members  int
		email    string
		password string
		seed     int64
	)
	flag.IntVar(&members, "members", 40, "Number of fake members to create")
	flag.StringVar(&email, "admin-email", "admin@ecclesia.local", "Email of the church admin login")
	flag.StringVar(&password, "admin-password", "ecclesia123", "Password of the church admin login")
	flag.Int64Var(&seed, "seed", 0, "Faker seed (0 picks a random one)")
	flag.Parse()

	log, err := logger.New(logger.ConfigForEnvironment("development", "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, nil)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	s := &seeder{
		faker:    gofakeit.New(uint64(seed)),
		churches: appchurch.NewChurchService(persistence.NewGormChurchRepository(db.DB), nil, log),
		members:  appchurch.NewMemberService(persistence.NewGormMemberRepository(db.DB)),
		accounting: appaccounting.NewAccountingService(
			persistence.NewGormChartAccountRepository(db.DB),
			persistence.NewGormJournalEntryRepository(db.DB),
			persistence.NewAccountingTransactionScope(db.DB),
			nil, nil, telemetry.NoopAppMetrics(), log,
		),
		users: apidentity.NewUserService(persistence.NewGormUserRepository(db.DB),
			auth.NewInMemoryTokenBlacklist(), cfg.JWT.RefreshTokenExpiration, nil, log),
		catalog: appstore.NewCatalogService(persistence.NewGormProductRepository(db.DB), log),
		log:     log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.run(ctx, members, email, password); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding completed", zap.String("admin_email", email))
}

type seeder struct {
	faker      *gofakeit.Faker
	churches   *appchurch.ChurchService
	members    *appchurch.MemberService
	accounting *appaccounting.AccountingService
	users      *apidentity.UserService
	catalog    *appstore.CatalogService
	log        *zap.Logger
}

func (s *seeder) run(ctx context.Context, members int, email, password string) error {
	church, err := s.churches.CreateChurch(ctx, appchurch.ChurchRequest{
		Name:  "Igreja " + s.faker.LastName(),
		Email: s.faker.Email(),
		Phone: s.faker.Phone(),
		Address: appchurch.AddressDTO{
			Street:     s.faker.Street(),
			Number:     fmt.Sprint(s.faker.Number(1, 2000)),
			City:       s.faker.City(),
			State:      "SP",
			PostalCode: fmt.Sprintf("%05d-%03d", s.faker.Number(1000, 99999), s.faker.Number(0, 999)),
		},
		Modules:    []string{"financial", "school", "store"},
		ClientType: "church",
	})
	if err != nil {
		return fmt.Errorf("creating church: %w", err)
	}
	s.log.Info("Church created", zap.String("church_id", church.ID.String()), zap.String("name", church.Name))

	chart, err := s.accounting.SeedDefaultChart(ctx, church.ID)
	if err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}
	s.log.Info("Chart of accounts seeded", zap.Int("accounts", len(chart)))

	actor := apidentity.Actor{UserID: uuid.Nil, ChurchID: church.ID, Role: identity.RoleAdmin}
	admin, err := s.users.CreateUser(ctx, actor, apidentity.CreateUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: "Administrador",
		Role:        string(identity.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	for i := 0; i < members; i++ {
		if _, err := s.members.CreateMember(ctx, church.ID, s.fakeMember(), &admin.ID); err != nil {
			return fmt.Errorf("creating member %d: %w", i+1, err)
		}
	}
	s.log.Info("Members created", zap.Int("count", members))

	return s.seedCatalog(ctx)
}

func (s *seeder) fakeMember() appchurch.MemberRequest {
	now := time.Now()
	birth := s.faker.DateRange(now.AddDate(-85, 0, 0), now.AddDate(-4, 0, 0))
	req := appchurch.MemberRequest{
		FullName:  s.faker.FirstName() + " " + s.faker.LastName(),
		Email:     s.faker.Email(),
		Phone:     s.faker.Phone(),
		BirthDate: birth.Format("2006-01-02"),
		Status:    s.faker.RandomString(memberStatuses),
	}
	if s.faker.Bool() {
		baptism := s.faker.DateRange(birth.AddDate(12, 0, 0), now)
		if baptism.Before(now) {
			req.BaptismDate = baptism.Format("2006-01-02")
		}
	}
	return req
}

// seedCatalog is idempotent: products whose SKU already exists are skipped
func (s *seeder) seedCatalog(ctx context.Context) error {
	created := 0
	for _, p := range demoProducts {
		product, err := s.catalog.CreateProduct(ctx, appstore.ProductRequest{
			SKU:         p.sku,
			Name:        p.name,
			Price:       decimal.RequireFromString(p.price),
			WeightGrams: p.weight,
		})
		if err != nil {
			s.log.Warn("Skipping product", zap.String("sku", p.sku), zap.Error(err))
			continue
		}
		if _, err := s.catalog.Restock(ctx, product.ID, appstore.RestockRequest{
			Quantity: s.faker.Number(20, 200),
		}); err != nil {
			return fmt.Errorf("restocking %s: %w", p.sku, err)
		}
		created++
	}
	s.log.Info("Store catalog seeded", zap.Int("products", created))
	return nil
}
