package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/prizely-backend/internal/clients/redis"
	"github.com/yungbote/prizely-backend/internal/compare"
	"github.com/yungbote/prizely-backend/internal/data/seed"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/apierr"
	"github.com/yungbote/prizely-backend/internal/platform/ctxutil"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

const (
	MinSelectedItems   = 1
	MinSelectedMarkets = 2
)

// Selection is a comparison request by catalog id, in display order.
type Selection struct {
	ItemIDs   []string `json:"itemIds"`
	MarketIDs []string `json:"marketIds"`
}

// Comparison is the engine result plus the display metadata of everything selected.
type Comparison struct {
	Result  compare.Result                `json:"result"`
	Items   map[string]compare.ItemMeta   `json:"items"`
	Markets map[string]compare.MarketMeta `json:"markets"`
}

type ComparisonService interface {
	Snapshot(ctx context.Context) (*compare.Snapshot, error)
	Compare(ctx context.Context, sel Selection) (*Comparison, error)
	Report(ctx context.Context, sel Selection) (string, error)
	Defaults(ctx context.Context) (Selection, error)
	ResolveNames(ctx context.Context, itemNames, marketNames []string) (Selection, error)
	CatalogChanged(ctx context.Context)
}

type comparisonService struct {
	log       *logger.Logger
	reader    compare.CatalogReader
	cache     redis.SnapshotCache
	formatter *compare.Formatter
	defaults  seed.Selection
	metrics   *observability.Metrics
}

func NewComparisonService(
	log *logger.Logger,
	reader compare.CatalogReader,
	cache redis.SnapshotCache,
	formatter *compare.Formatter,
	defaults seed.Selection,
	metrics *observability.Metrics,
) ComparisonService {
	if cache == nil {
		cache = redis.NoopCache{}
	}
	return &comparisonService{
		log:       log.With("service", "ComparisonService"),
		reader:    reader,
		cache:     cache,
		formatter: formatter,
		defaults:  defaults,
		metrics:   metrics,
	}
}

// Snapshot serves the catalog from the cache when possible. Cache failures fall back
// to the database and are only logged. A loaded snapshot is cached only when no
// catalog write was invalidated while it was being read.
func (s *comparisonService) Snapshot(ctx context.Context) (*compare.Snapshot, error) {
	snap, ok, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		s.metrics.IncCacheLookup("error")
		s.log.Warn("snapshot cache read failed", append(ctxutil.LogFields(ctx), "error", err)...)
	case ok:
		s.metrics.IncCacheLookup("hit")
		return snap, nil
	default:
		s.metrics.IncCacheLookup("miss")
	}

	// The generation is read before loading so a write committed mid-load keeps
	// this snapshot out of the cache.
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.Warn("snapshot cache generation read failed", append(ctxutil.LogFields(ctx), "error", genErr)...)
	}

	snap, err = compare.LoadSnapshot(ctx, s.reader)
	if err != nil {
		s.metrics.IncSnapshotLoad("error")
		return nil, apierr.Internal("snapshot_failed", err)
	}
	s.metrics.IncSnapshotLoad("ok")
	if genErr != nil {
		return snap, nil
	}
	stored, err := s.cache.Set(ctx, gen, snap)
	switch {
	case err != nil:
		s.log.Warn("snapshot cache write failed", append(ctxutil.LogFields(ctx), "error", err)...)
	case !stored:
		s.log.Debug("catalog changed during load; snapshot not cached", ctxutil.LogFields(ctx)...)
	}
	return snap, nil
}

func (s *comparisonService) Compare(ctx context.Context, sel Selection) (*Comparison, error) {
	start := time.Now()
	snap, sel, err := s.prepare(ctx, sel)
	if err != nil {
		s.metrics.ObserveComparison("result", statusLabel(err), 0, 0, time.Since(start))
		return nil, err
	}

	out := &Comparison{
		Result:  compare.Compare(sel.ItemIDs, sel.MarketIDs, snap.Prices),
		Items:   make(map[string]compare.ItemMeta, len(sel.ItemIDs)),
		Markets: make(map[string]compare.MarketMeta, len(sel.MarketIDs)),
	}
	for _, id := range sel.ItemIDs {
		out.Items[id] = snap.Items[id]
	}
	for _, id := range sel.MarketIDs {
		out.Markets[id] = snap.Markets[id]
	}
	s.metrics.ObserveComparison("result", "ok", len(sel.ItemIDs), len(sel.MarketIDs), time.Since(start))
	return out, nil
}

func (s *comparisonService) Report(ctx context.Context, sel Selection) (string, error) {
	start := time.Now()
	snap, sel, err := s.prepare(ctx, sel)
	if err != nil {
		s.metrics.ObserveComparison("report", statusLabel(err), 0, 0, time.Since(start))
		return "", err
	}
	text, err := s.formatter.FormatReport(sel.ItemIDs, sel.MarketIDs, snap.Prices, snap.Items, snap.Markets)
	if err != nil {
		s.metrics.ObserveComparison("report", "error", 0, 0, time.Since(start))
		return "", refError(err)
	}
	s.metrics.ObserveComparison("report", "ok", len(sel.ItemIDs), len(sel.MarketIDs), time.Since(start))
	return text, nil
}

// Defaults picks the configured starting selection among what exists in the catalog,
// topping up from catalog order when configured names are missing.
func (s *comparisonService) Defaults(ctx context.Context) (Selection, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Selection{}, err
	}
	items := pickByName(snap.ItemOrder, func(id string) string { return snap.Items[id].Name }, s.defaults.Items, 3)
	markets := pickByName(snap.MarketOrder, func(id string) string { return snap.Markets[id].Name }, s.defaults.Markets, 3)
	return Selection{ItemIDs: items, MarketIDs: markets}, nil
}

// ResolveNames maps display names (case-insensitive) to catalog ids.
func (s *comparisonService) ResolveNames(ctx context.Context, itemNames, marketNames []string) (Selection, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Selection{}, err
	}
	itemIDs, err := resolve(snap.ItemOrder, func(id string) string { return snap.Items[id].Name }, itemNames, "item")
	if err != nil {
		return Selection{}, err
	}
	marketIDs, err := resolve(snap.MarketOrder, func(id string) string { return snap.Markets[id].Name }, marketNames, "market")
	if err != nil {
		return Selection{}, err
	}
	return Selection{ItemIDs: itemIDs, MarketIDs: marketIDs}, nil
}

func (s *comparisonService) CatalogChanged(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("snapshot cache invalidate failed", append(ctxutil.LogFields(ctx), "error", err)...)
	}
}

// prepare dedupes the selection, enforces its minimum size and checks every id
// against the current snapshot.
func (s *comparisonService) prepare(ctx context.Context, sel Selection) (*compare.Snapshot, Selection, error) {
	sel = Selection{ItemIDs: dedupe(sel.ItemIDs), MarketIDs: dedupe(sel.MarketIDs)}
	if len(sel.ItemIDs) < MinSelectedItems || len(sel.MarketIDs) < MinSelectedMarkets {
		return nil, sel, apierr.BadRequest(
			"invalid_selection",
			"select at least %d item and %d markets", MinSelectedItems, MinSelectedMarkets,
		)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, sel, err
	}
	if err := snap.Validate(sel.ItemIDs, sel.MarketIDs); err != nil {
		return nil, sel, refError(err)
	}
	return snap, sel, nil
}

func refError(err error) error {
	var ref *compare.UnknownRefError
	if errors.As(err, &ref) {
		return apierr.BadRequest("unknown_"+ref.Kind, "unknown %s %q", ref.Kind, ref.ID)
	}
	return apierr.Internal("report_failed", err)
}

func statusLabel(err error) string {
	if apierr.StatusOf(err) < 500 {
		return "rejected"
	}
	return "error"
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func pickByName(order []string, name func(string) string, preferred []string, n int) []string {
	byName := make(map[string]string, len(order))
	for _, id := range order {
		byName[strings.ToLower(name(id))] = id
	}
	picked := make([]string, 0, n)
	seen := map[string]struct{}{}
	for _, want := range preferred {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(want))]; ok {
			if _, dup := seen[id]; !dup && len(picked) < n {
				picked = append(picked, id)
				seen[id] = struct{}{}
			}
		}
	}
	for _, id := range order {
		if len(picked) >= n {
			break
		}
		if _, dup := seen[id]; !dup {
			picked = append(picked, id)
			seen[id] = struct{}{}
		}
	}
	return picked
}

func resolve(order []string, name func(string) string, names []string, kind string) ([]string, error) {
	byName := make(map[string]string, len(order))
	for _, id := range order {
		byName[strings.ToLower(name(id))] = id
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		id, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, apierr.BadRequest("unknown_"+kind, "unknown %s %q", kind, n)
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, apierr.BadRequest("invalid_selection", "no %s names given", kind)
	}
	return out, nil
}
