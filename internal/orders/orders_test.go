package orders_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menucart/internal/cart"
	"menucart/internal/orders"
	"menucart/internal/store"
)

func openTestRepo(t *testing.T) *orders.Repository {
	t.Helper()

	kv, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	repo, err := orders.NewRepository(kv.DB())
	require.NoError(t, err)
	return repo
}

func sampleOrder(created time.Time) orders.Order {
	return orders.Order{
		ID:      uuid.NewString(),
		Receipt: "C-04231",
		Items: []cart.Line{
			{ProductID: "2", Name: "Cola", Price: 40, Quantity: 2},
		},
		Total:     80,
		CreatedAt: created,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	repo := openTestRepo(t)

	o := sampleOrder(time.Now().Truncate(time.Second))
	require.NoError(t, repo.Insert(o))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.Receipt, got.Receipt)
	assert.InDelta(t, o.Total, got.Total, 1e-9)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Cola", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, o.CreatedAt.Equal(got.CreatedAt))
}

func TestRecentNewestFirst(t *testing.T) {
	repo := openTestRepo(t)

	base := time.Now().Truncate(time.Second)
	oldest := sampleOrder(base.Add(-2 * time.Hour))
	middle := sampleOrder(base.Add(-1 * time.Hour))
	newest := sampleOrder(base)

	require.NoError(t, repo.Insert(oldest))
	require.NoError(t, repo.Insert(newest))
	require.NoError(t, repo.Insert(middle))

	got, err := repo.Recent(2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, newest.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
}

func TestRecentOrdersAcrossTimeZones(t *testing.T) {
	repo := openTestRepo(t)

	// 10:00+05:00 is 05:00 UTC; 09:00Z is four hours later. Sorting the
	// stored text without UTC normalization would rank the wall-clock-later
	// order first.
	earlier := sampleOrder(time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("IST-ish", 5*3600)))
	later := sampleOrder(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Insert(earlier))
	require.NoError(t, repo.Insert(later))

	got, err := repo.Recent(10)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, later.ID, got[0].ID)
	assert.Equal(t, earlier.ID, got[1].ID)
	assert.True(t, earlier.CreatedAt.Equal(got[1].CreatedAt))
}

func TestRecentEmpty(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewReceiptCode(t *testing.T) {
	code, err := orders.NewReceiptCode("Cola")
	require.NoError(t, err)
	assert.Regexp(t, `^C-\d{5}$`, code)

	code, err = orders.NewReceiptCode("  chai ")
	require.NoError(t, err)
	assert.Regexp(t, `^C-\d{5}$`, code, "seed is trimmed and uppercased")

	code, err = orders.NewReceiptCode("")
	require.NoError(t, err)
	assert.Regexp(t, `^X-\d{5}$`, code)
}
