package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/prizely-backend/internal/data/repos/testutil"
	types "github.com/yungbote/prizely-backend/internal/domain"
	"gorm.io/gorm"
)

func TestItemRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewItemRepo(db, testutil.Logger(t))

	emoji := "🥛"
	created, err := repo.Create(ctx, tx, []*types.Item{
		{Name: "Sugar", Unit: types.UnitKilogram},
		{Name: "Milk", Unit: types.UnitLiter, Emoji: &emoji},
		{Name: "Brown Sugar", Unit: types.UnitKilogram},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	all, err := repo.List(ctx, tx, ItemFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Brown Sugar" || all[2].Name != "Sugar" {
		t.Fatalf("List: expected name order, got %v", itemNames(all))
	}

	matched, err := repo.List(ctx, tx, ItemFilter{Query: "SUGAR"})
	if err != nil {
		t.Fatalf("List(q): %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("List(q): expected 2, got %v", itemNames(matched))
	}

	got, err := repo.GetByID(ctx, tx, created[1].ID, false)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Emoji == nil || *got.Emoji != emoji {
		t.Fatalf("GetByID: emoji not persisted: %+v", got)
	}

	byName, err := repo.GetByNames(ctx, tx, []string{" milk "})
	if err != nil || len(byName) != 1 || byName[0].ID != created[1].ID {
		t.Fatalf("GetByNames: %v %+v", err, byName)
	}

	if err := repo.Update(ctx, tx, created[0].ID, map[string]any{"unit": string(types.UnitGram)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Update(ctx, tx, uuid.New(), map[string]any{"unit": "kg"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Update(missing): expected ErrRecordNotFound, got %v", err)
	}

	n, err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{created[2].ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: n=%d err=%v", n, err)
	}
	if _, err := repo.GetByID(ctx, tx, created[2].ID, false); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID(deleted): expected ErrRecordNotFound, got %v", err)
	}

	count, err := repo.Count(ctx, tx)
	if err != nil || count != 2 {
		t.Fatalf("Count: %d %v", count, err)
	}

	_, err = repo.Create(ctx, tx, []*types.Item{{Name: "Sugar", Unit: types.UnitKilogram}})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create(duplicate): expected ErrDuplicatedKey, got %v", err)
	}
}

func TestMarketRepoVerifiedFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewMarketRepo(db, testutil.Logger(t))
	rating := 4.6
	if _, err := repo.Create(ctx, tx, []*types.Market{
		{Name: "Imtiaz", Rating: &rating, Verified: true},
		{Name: "Chase Up"},
		{Name: "Metro", Verified: true},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	verified, err := repo.List(ctx, tx, MarketFilter{VerifiedOnly: true})
	if err != nil {
		t.Fatalf("List(verified): %v", err)
	}
	if len(verified) != 2 || verified[0].Name != "Imtiaz" || verified[1].Name != "Metro" {
		t.Fatalf("List(verified): unexpected %+v", verified)
	}

	searched, err := repo.List(ctx, tx, MarketFilter{Query: "up"})
	if err != nil || len(searched) != 1 || searched[0].Name != "Chase Up" {
		t.Fatalf("List(q): %v %+v", err, searched)
	}

	if searched[0].Rating != nil {
		t.Fatalf("expected nil rating for Chase Up, got %v", *searched[0].Rating)
	}
}

func TestPriceRepoUpsertAndCascade(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	logg := testutil.Logger(t)

	sugar := testutil.SeedItem(t, ctx, tx, "Sugar", types.UnitKilogram)
	milk := testutil.SeedItem(t, ctx, tx, "Milk", types.UnitLiter)
	imtiaz := testutil.SeedMarket(t, ctx, tx, "Imtiaz", true)
	metro := testutil.SeedMarket(t, ctx, tx, "Metro", true)

	prices := NewPriceRepo(db, logg)

	first, created, err := prices.Upsert(ctx, tx, sugar.ID, imtiaz.ID, 150)
	if err != nil || !created {
		t.Fatalf("Upsert(create): created=%v err=%v", created, err)
	}
	if first.Item == nil || first.Item.Name != "Sugar" || first.Market == nil || first.Market.Name != "Imtiaz" {
		t.Fatalf("Upsert(create): relations not loaded: %+v", first)
	}

	second, created, err := prices.Upsert(ctx, tx, sugar.ID, imtiaz.ID, 149.5)
	if err != nil || created {
		t.Fatalf("Upsert(update): created=%v err=%v", created, err)
	}
	if second.ID != first.ID || second.Price != 149.5 {
		t.Fatalf("Upsert(update): expected same row with new price, got %+v", second)
	}

	testutil.SeedPrice(t, ctx, tx, milk.ID, imtiaz.ID, 120)
	testutil.SeedPrice(t, ctx, tx, milk.ID, metro.ID, 130)

	listed, err := prices.List(ctx, tx, PriceFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("List: expected 3, got %d", len(listed))
	}
	if listed[0].Item.Name != "Milk" || listed[0].Market.Name != "Imtiaz" || listed[2].Item.Name != "Sugar" {
		t.Fatalf("List: unexpected order")
	}

	onlyMetro, err := prices.List(ctx, tx, PriceFilter{MarketIDs: []uuid.UUID{metro.ID}})
	if err != nil || len(onlyMetro) != 1 || onlyMetro[0].Price != 130 {
		t.Fatalf("List(market): %v %+v", err, onlyMetro)
	}

	if err := prices.UpdatePrice(ctx, tx, first.ID, 155); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if err := prices.UpdatePrice(ctx, tx, uuid.New(), 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdatePrice(missing): expected ErrRecordNotFound, got %v", err)
	}

	n, err := prices.DeleteByItemIDs(ctx, tx, []uuid.UUID{milk.ID})
	if err != nil || n != 2 {
		t.Fatalf("DeleteByItemIDs: n=%d err=%v", n, err)
	}
	n, err = prices.DeleteByMarketIDs(ctx, tx, []uuid.UUID{imtiaz.ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteByMarketIDs: n=%d err=%v", n, err)
	}
	count, err := prices.Count(ctx, tx)
	if err != nil || count != 0 {
		t.Fatalf("Count: %d %v", count, err)
	}
}

func TestReaderBuildsSnapshot(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	logg := testutil.Logger(t)

	sugar := testutil.SeedItem(t, ctx, tx, "Sugar", types.UnitKilogram)
	milk := testutil.SeedItem(t, ctx, tx, "Milk", types.UnitLiter)
	imtiaz := testutil.SeedMarket(t, ctx, tx, "Imtiaz", true)
	testutil.SeedPrice(t, ctx, tx, sugar.ID, imtiaz.ID, 150)

	r := &Reader{
		Items:   NewItemRepo(db, logg),
		Markets: NewMarketRepo(db, logg),
		Prices:  NewPriceRepo(db, logg),
		Tx:      tx,
	}

	items, err := r.AllItems(ctx)
	if err != nil || len(items) != 2 || items[0].ID != milk.ID.String() {
		t.Fatalf("AllItems: %v %+v", err, items)
	}
	markets, err := r.AllMarkets(ctx)
	if err != nil || len(markets) != 1 || !markets[0].Verified {
		t.Fatalf("AllMarkets: %v %+v", err, markets)
	}
	entries, err := r.AllPrices(ctx)
	if err != nil || len(entries) != 1 || entries[0].Price != 150 {
		t.Fatalf("AllPrices: %v %+v", err, entries)
	}
	if entries[0].ItemID != sugar.ID.String() || entries[0].MarketID != imtiaz.ID.String() {
		t.Fatalf("AllPrices: wrong ids %+v", entries[0])
	}
}

func itemNames(items []*types.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
