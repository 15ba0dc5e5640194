// Package reporting builds inventory snapshots and pushes them to the
// configured sinks.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/catalog"
	"github.com/mamadbah2/backoffice/internal/service/records"
)

const dateLayout = "2006-01-02"

// ErrSinkDisabled is returned when the requested sink has not been configured.
var ErrSinkDisabled = models.NewError(models.KindBadRequest, http.StatusBadRequest, "Reporting sink is not configured", nil)

// SnapshotStore persists snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.InventorySnapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]models.InventorySnapshot, error)
}

// SheetWriter replaces a spreadsheet range.
type SheetWriter interface {
	ReplaceRange(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// Notifier delivers the summary text.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Service generates snapshots from the catalog. Store, sheets and notifier
// are optional.
type Service struct {
	catalog    *catalog.Service
	store      SnapshotStore
	sheets     SheetWriter
	sheetRange string
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
	loc        *time.Location
}

// Option configures optional sinks.
type Option func(*Service)

// WithStore enables snapshot persistence.
func WithStore(store SnapshotStore) Option {
	return func(s *Service) { s.store = store }
}

// WithSheets enables the article export to sheetRange.
func WithSheets(writer SheetWriter, sheetRange string) Option {
	return func(s *Service) {
		s.sheets = writer
		s.sheetRange = sheetRange
	}
}

// WithNotifier enables the summary notification.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLocation sets the timezone used to date snapshots.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// NewService wires a new reporting service instance.
func NewService(cat *catalog.Service, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{catalog: cat, logger: logger, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateSnapshot reloads both collections and aggregates them.
func (s *Service) GenerateSnapshot(ctx context.Context) (models.InventorySnapshot, error) {
	var (
		articles []models.Article
		clients  []models.Client
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if articles, err = s.catalog.Articles.Refresh(gctx); err != nil {
			return fmt.Errorf("refresh articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if clients, err = s.catalog.Clients.Refresh(gctx); err != nil {
			return fmt.Errorf("refresh clients: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.InventorySnapshot{}, err
	}

	now := s.now().In(s.loc)
	return models.InventorySnapshot{
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc),
		Articles:  records.Statistics(articles),
		Clients:   records.ClientStats(clients),
		CreatedAt: now,
	}, nil
}

// TakeSnapshot generates a snapshot and stores it.
func (s *Service) TakeSnapshot(ctx context.Context) (models.InventorySnapshot, error) {
	if s.store == nil {
		return models.InventorySnapshot{}, ErrSinkDisabled
	}
	snapshot, err := s.GenerateSnapshot(ctx)
	if err != nil {
		return models.InventorySnapshot{}, err
	}
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		return models.InventorySnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snapshot, nil
}

// History lists stored snapshots, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.InventorySnapshot, error) {
	if s.store == nil {
		return nil, ErrSinkDisabled
	}
	return s.store.ListSnapshots(ctx, limit)
}

// ExportArticlesToSheet writes the header and every cached article.
func (s *Service) ExportArticlesToSheet(ctx context.Context) (int, error) {
	if s.sheets == nil {
		return 0, ErrSinkDisabled
	}
	articles, err := s.catalog.Articles.Items(ctx)
	if err != nil {
		return 0, err
	}
	return len(articles), s.writeSheet(ctx, articles)
}

func (s *Service) writeSheet(ctx context.Context, articles []models.Article) error {
	header := make([]interface{}, len(records.ArticleCSVHeader))
	for i, h := range records.ArticleCSVHeader {
		header[i] = h
	}

	rows := make([][]interface{}, 0, len(articles)+1)
	rows = append(rows, header)
	for _, row := range records.ArticleRows(articles) {
		rows = append(rows, row)
	}

	if err := s.sheets.ReplaceRange(ctx, s.sheetRange, rows); err != nil {
		return fmt.Errorf("export articles: %w", err)
	}
	return nil
}

// FormatSummary renders the snapshot as a short plain-text message.
func FormatSummary(snapshot models.InventorySnapshot) string {
	a, c := snapshot.Articles, snapshot.Clients

	var b strings.Builder
	fmt.Fprintf(&b, "Inventaire du %s\n", snapshot.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Articles: %d\n", a.TotalArticles)
	fmt.Fprintf(&b, "Prix d'achat moyen: %s\n", records.FormatCurrency(a.AveragePurchasePrice))
	fmt.Fprintf(&b, "Prix de vente moyen: %s\n", records.FormatCurrency(a.AverageSellingPrice))
	fmt.Fprintf(&b, "Marge moyenne: %s\n", records.FormatPercentage(a.AverageProfitMargin))
	fmt.Fprintf(&b, "Valeur du stock: %s\n", records.FormatCurrency(a.TotalInventoryValue))
	fmt.Fprintf(&b, "Clients: %d (état total %s)", c.TotalClients, records.FormatCurrency(c.TotalEtat))
	return b.String()
}

// RunDaily generates a snapshot and hands it to every configured sink. A
// failing sink does not stop the others; their errors are joined.
func (s *Service) RunDaily(ctx context.Context) error {
	snapshot, err := s.GenerateSnapshot(ctx)
	if err != nil {
		s.logger.Error("failed to generate inventory snapshot", zap.Error(err))
		return err
	}

	var errs []error

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to save inventory snapshot", zap.Error(err))
			errs = append(errs, fmt.Errorf("save snapshot: %w", err))
		}
	}

	if s.sheets != nil {
		articles, err := s.catalog.Articles.Items(ctx)
		if err == nil {
			err = s.writeSheet(ctx, articles)
		}
		if err != nil {
			s.logger.Error("failed to export articles to sheets", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, FormatSummary(snapshot)); err != nil {
			s.logger.Error("failed to send inventory summary", zap.Error(err))
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}

	s.logger.Info("daily inventory report completed",
		zap.Int("articles", snapshot.Articles.TotalArticles),
		zap.Int("clients", snapshot.Clients.TotalClients),
		zap.Int("failures", len(errs)))

	return errors.Join(errs...)
}
