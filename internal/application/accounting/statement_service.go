package accounting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/infrastructure/printing"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatementService computes the trial balance, balance sheet and income
// statement and exports them as HTML or PDF
type StatementService struct {
	chartRepo  accounting.ChartAccountRepository
	entryRepo  accounting.JournalEntryRepository
	churchRepo church.ChurchRepository
	cache      StatementCache
	templates  *printing.StatementTemplates
	renderer   printing.PDFRenderer
	metrics    *telemetry.AppMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewStatementService creates a StatementService. cache may be nil.
func NewStatementService(
	chartRepo accounting.ChartAccountRepository,
	entryRepo accounting.JournalEntryRepository,
	churchRepo church.ChurchRepository,
	cache StatementCache,
	templates *printing.StatementTemplates,
	renderer printing.PDFRenderer,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *StatementService {
	if renderer == nil {
		renderer = printing.HTMLOnlyRenderer{}
	}
	return &StatementService{
		chartRepo:  chartRepo,
		entryRepo:  entryRepo,
		churchRepo: churchRepo,
		cache:      cache,
		templates:  templates,
		renderer:   renderer,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// UseLocation makes the dates the service treats as today follow loc
func (s *StatementService) UseLocation(loc *time.Location) {
	s.now = shared.InLocation(s.now, loc)
}

// ResolvePeriod turns the query into a period. Missing dates default to the
// current month.
func (s *StatementService) ResolvePeriod(q PeriodQuery) (accounting.Period, error) {
	current := accounting.MonthPeriod(s.now())
	from, to := current.From, current.To
	if q.From != "" {
		d, err := ParseDate(q.From)
		if err != nil {
			return accounting.Period{}, err
		}
		from = d
	}
	if q.To != "" {
		d, err := ParseDate(q.To)
		if err != nil {
			return accounting.Period{}, err
		}
		to = d
	}
	return accounting.NewPeriod(from, to)
}

// TrialBalance returns the balancete for the period
func (s *StatementService) TrialBalance(ctx context.Context, churchID uuid.UUID, period accounting.Period) (*accounting.TrialBalance, error) {
	var tb accounting.TrialBalance
	err := s.cached(ctx, churchID, StatementTrialBalance, period, &tb, func(chart []accounting.ChartAccount, entries []accounting.JournalEntry) any {
		return accounting.BuildTrialBalance(chart, entries, period)
	})
	if err != nil {
		return nil, err
	}
	return &tb, nil
}

// BalanceSheet returns the balanço patrimonial at the end of the period
func (s *StatementService) BalanceSheet(ctx context.Context, churchID uuid.UUID, period accounting.Period) (*accounting.BalanceSheet, error) {
	var bs accounting.BalanceSheet
	err := s.cached(ctx, churchID, StatementBalanceSheet, period, &bs, func(chart []accounting.ChartAccount, entries []accounting.JournalEntry) any {
		return accounting.BuildBalanceSheet(chart, entries, period)
	})
	if err != nil {
		return nil, err
	}
	return &bs, nil
}

// IncomeStatement returns the DRE for the period
func (s *StatementService) IncomeStatement(ctx context.Context, churchID uuid.UUID, period accounting.Period) (*accounting.IncomeStatement, error) {
	var is accounting.IncomeStatement
	err := s.cached(ctx, churchID, StatementIncomeStatement, period, &is, func(chart []accounting.ChartAccount, entries []accounting.JournalEntry) any {
		return accounting.BuildIncomeStatement(chart, entries, period)
	})
	if err != nil {
		return nil, err
	}
	return &is, nil
}

// cached loads dst from the cache or builds it from the chart and the entries
// up to the end of the period. dst must be a pointer to the built type.
func (s *StatementService) cached(
	ctx context.Context,
	churchID uuid.UUID,
	kind StatementKind,
	period accounting.Period,
	dst any,
	build func([]accounting.ChartAccount, []accounting.JournalEntry) any,
) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "statements", string(kind), telemetry.ChurchAttr(churchID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	key := statementKey(kind, period)
	useCache := s.cache != nil
	var generation int64
	if useCache {
		var genErr error
		if generation, genErr = s.cache.Generation(ctx, churchID); genErr != nil {
			logger.WithLogger(ctx, s.logger).Warn("Statement cache unavailable", zap.Error(genErr))
			useCache = false
		}
	}
	if useCache {
		hit, cacheErr := s.cache.Get(ctx, churchID, key, dst)
		if cacheErr != nil {
			logger.WithLogger(ctx, s.logger).Warn("Statement cache read failed", zap.String("key", key), zap.Error(cacheErr))
		}
		s.metrics.ReportCacheLookup(ctx, hit)
		if hit {
			return nil
		}
	}

	chart, err := s.chartRepo.FindAll(ctx, churchID)
	if err != nil {
		return err
	}
	entries, err := s.entryRepo.FindUpTo(ctx, churchID, period.To)
	if err != nil {
		return err
	}

	built := build(chart, entries)
	if err := copyInto(built, dst); err != nil {
		return err
	}

	if useCache {
		if err := s.cache.Set(ctx, churchID, generation, key, built); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Statement cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func statementKey(kind StatementKind, p accounting.Period) string {
	return fmt.Sprintf("%s:%s:%s", kind, p.From.Format(time.DateOnly), p.To.Format(time.DateOnly))
}

// copyInto assigns a freshly built statement to the caller's pointer
func copyInto(built, dst any) error {
	switch d := dst.(type) {
	case *accounting.TrialBalance:
		*d = *built.(*accounting.TrialBalance)
	case *accounting.BalanceSheet:
		*d = *built.(*accounting.BalanceSheet)
	case *accounting.IncomeStatement:
		*d = *built.(*accounting.IncomeStatement)
	default:
		return fmt.Errorf("unsupported statement type %T", dst)
	}
	return nil
}

// Render produces the statement in the requested format. PDF requests fall
// back to HTML when no renderer is available.
func (s *StatementService) Render(ctx context.Context, churchID uuid.UUID, kind StatementKind, period accounting.Period, format string) (*Document, error) {
	var (
		data  any
		title string
		err   error
	)
	switch kind {
	case StatementTrialBalance:
		data, err = s.TrialBalance(ctx, churchID, period)
		title = "Balancete de Verificação"
	case StatementBalanceSheet:
		data, err = s.BalanceSheet(ctx, churchID, period)
		title = "Balanço Patrimonial"
	case StatementIncomeStatement:
		data, err = s.IncomeStatement(ctx, churchID, period)
		title = "Demonstração do Resultado"
	default:
		return nil, shared.NewDomainError("UNKNOWN_STATEMENT", "Unknown statement "+string(kind))
	}
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s_%s_%s", kind, period.From.Format("20060102"), period.To.Format("20060102"))

	if format == "" || format == "json" {
		body, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		return &Document{ContentType: "application/json", Filename: base + ".json", Body: body}, nil
	}

	html, err := s.renderHTML(ctx, churchID, data)
	if err != nil {
		return nil, err
	}
	htmlDoc := &Document{ContentType: "text/html; charset=utf-8", Filename: base + ".html", Body: []byte(html)}
	if format == "html" {
		return htmlDoc, nil
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:      html,
		Title:     title,
		Landscape: kind == StatementTrialBalance,
	})
	if err != nil {
		var renderErr *printing.RenderError
		if errors.As(err, &renderErr) && renderErr.Code == printing.ErrCodeRendererAbsent {
			logger.WithLogger(ctx, s.logger).Info("PDF export unavailable, serving HTML", zap.String("statement", string(kind)))
			return htmlDoc, nil
		}
		return nil, err
	}
	return &Document{ContentType: "application/pdf", Filename: base + ".pdf", Body: result.PDFData}, nil
}

func (s *StatementService) renderHTML(ctx context.Context, churchID uuid.UUID, data any) (string, error) {
	header := printing.StatementHeader{GeneratedAt: s.now()}
	if s.churchRepo != nil {
		c, err := s.churchRepo.FindByID(ctx, churchID)
		if err != nil {
			return "", err
		}
		header.ChurchName = c.Name
		header.CNPJ = c.CNPJ
	}

	switch d := data.(type) {
	case *accounting.TrialBalance:
		return s.templates.TrialBalance(header, d)
	case *accounting.BalanceSheet:
		return s.templates.BalanceSheet(header, d)
	case *accounting.IncomeStatement:
		return s.templates.IncomeStatement(header, d)
	}
	return "", fmt.Errorf("unsupported statement type %T", data)
}
