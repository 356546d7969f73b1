package assets

import (
	"context"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := &Service{DB: db}

	a, err := svc.Create(context.Background(), testutil.Senior("alpha"), CreateRequest{
		Ticker: " petr4 ", Name: "Petrobras", Category: domain.CategoryEquity,
	})
	require.NoError(t, err)
	assert.Equal(t, "PETR4", a.Ticker)
	assert.NotEqual(t, uuid.Nil, a.AssetID)

	_, err = svc.Create(context.Background(), testutil.Admin(), CreateRequest{
		Ticker: "PETR4", Name: "Dup", Category: domain.CategoryEquity,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &domain.Asset{}))
}

func TestCreate_Rejections(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := &Service{DB: db}

	_, err := svc.Create(context.Background(), testutil.Junior("alpha"), CreateRequest{
		Ticker: "ABC", Name: "A", Category: domain.CategoryEquity,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cases := map[string]CreateRequest{
		"empty ticker":   {Ticker: "", Name: "A", Category: domain.CategoryEquity},
		"long ticker":    {Ticker: "ABCDEFGHIJK", Name: "A", Category: domain.CategoryEquity},
		"empty name":     {Ticker: "ABC", Name: " ", Category: domain.CategoryEquity},
		"bad category":   {Ticker: "ABC", Name: "A", Category: "CRYPTO"},
		"empty category": {Ticker: "ABC", Name: "A"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), testutil.Admin(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &domain.Asset{}))
}

func TestListAndGet(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := &Service{DB: db}
	b := testutil.CreateAsset(t, db, "BBB")
	testutil.CreateAsset(t, db, "AAA")
	fund := &domain.Asset{Ticker: "HGLG11", Name: "Fund", Category: domain.CategoryRealEstateFund}
	require.NoError(t, db.Create(fund).Error)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "AAA", all[0].Ticker)

	funds, err := svc.List(context.Background(), domain.CategoryRealEstateFund)
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "HGLG11", funds[0].Ticker)

	_, err = svc.List(context.Background(), "CRYPTO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := svc.Get(context.Background(), b.AssetID)
	require.NoError(t, err)
	assert.Equal(t, "BBB", got.Ticker)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := &Service{DB: db}
	a := testutil.CreateAsset(t, db, "AAA")
	testutil.CreateAsset(t, db, "BBB")
	name := "Renamed"
	cat := domain.CategoryFixedIncome

	got, err := svc.Update(context.Background(), testutil.Senior("alpha"), a.AssetID, UpdateRequest{Name: &name, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, domain.CategoryFixedIncome, got.Category)

	dup := "bbb"
	_, err = svc.Update(context.Background(), testutil.Admin(), a.AssetID, UpdateRequest{Ticker: &dup})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	same := "aaa"
	_, err = svc.Update(context.Background(), testutil.Admin(), a.AssetID, UpdateRequest{Ticker: &same})
	assert.NoError(t, err)

	_, err = svc.Update(context.Background(), testutil.Junior("alpha"), a.AssetID, UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(context.Background(), testutil.Admin(), uuid.New(), UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var stored domain.Asset
	require.NoError(t, db.First(&stored, "asset_id = ?", a.AssetID).Error)
	assert.Equal(t, "AAA", stored.Ticker)
	assert.Equal(t, "Renamed", stored.Name)
}

func TestDelete_BlockedWhileReferenced(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := &Service{DB: db}
	p := testutil.CreatePortfolio(t, db, "P", "alpha")
	held := testutil.CreateAsset(t, db, "HELD")
	free := testutil.CreateAsset(t, db, "FREE")
	testutil.CreateHolding(t, db, p.PortfolioID, held.AssetID, "1.00", "1.00")

	err := svc.Delete(context.Background(), testutil.Admin(), held.AssetID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, svc.Delete(context.Background(), testutil.Junior("alpha"), free.AssetID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), testutil.Senior("alpha"), free.AssetID))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &domain.Asset{}))

	assert.ErrorIs(t, svc.Delete(context.Background(), testutil.Admin(), free.AssetID), domain.ErrNotFound)
}
