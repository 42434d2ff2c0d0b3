package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proteintrack/backend/internal/models"
	"github.com/proteintrack/backend/internal/testhelpers"
)

// stubSource is a scriptable NutritionSource for catalog tests.
type stubSource struct {
	records     []NormalizedFood
	fetchRecord *NormalizedFood
	err         error
	searchCalls int
}

func (s *stubSource) Search(ctx context.Context, term string, limit int) ([]NormalizedFood, error) {
	s.searchCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubSource) Fetch(ctx context.Context, fdcID string) (*NormalizedFood, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fetchRecord, nil
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, nil, 5)

	rec := NormalizedFood{
		FdcID:           "12345",
		Name:            "Chicken Breast",
		ProteinPer100g:  10,
		CaloriesPer100g: 165,
	}

	item, created, err := svc.Upsert(rec)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 10.0, item.ProteinPer100g)

	// Same record again is a no-op, not a new row.
	again, created, err := svc.Upsert(rec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, again.ID)

	// A corrected value overwrites in place.
	rec.ProteinPer100g = 15
	updated, created, err := svc.Upsert(rec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, 15.0, updated.ProteinPer100g)

	fetched, err := svc.Get(item.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 15.0, fetched.ProteinPer100g)
}

func TestUpsertRejectsIncompleteRecords(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, nil, 5)

	_, _, err := svc.Upsert(NormalizedFood{Name: "No ID"})
	assert.ErrorIs(t, err, ErrInvalidFood)

	_, _, err = svc.Upsert(NormalizedFood{FdcID: "99"})
	assert.ErrorIs(t, err, ErrInvalidFood)
}

func TestSearchLocal(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, nil, 5)

	testhelpers.CreateTestFood(t, db, "1", "Chicken Thigh", 26, 209)
	testhelpers.CreateTestFood(t, db, "2", "Chicken Breast", 31, 165)
	testhelpers.CreateTestFood(t, db, "3", "Tofu", 17, 145)

	items, err := svc.SearchLocal("CHICKEN", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chicken Breast", items[0].Name)
	assert.Equal(t, "Chicken Thigh", items[1].Name)

	// Sub-two-character terms never hit the database.
	items, err = svc.SearchLocal("c", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchConsultsSourceBelowThreshold(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	source := &stubSource{records: []NormalizedFood{
		{FdcID: "100", Name: "Salmon, Atlantic", ProteinPer100g: 22, CaloriesPer100g: 206},
		{FdcID: "101", Name: "Salmon, canned", ProteinPer100g: 23, CaloriesPer100g: 153},
	}}
	svc := NewCatalogService(db, source, 5)

	items, err := svc.Search(context.Background(), "salmon")
	require.NoError(t, err)
	assert.Equal(t, 1, source.searchCalls)
	require.Len(t, items, 2)
	assert.Equal(t, "Salmon, Atlantic", items[0].Name)

	// The external records are now catalog rows.
	cached, err := svc.SearchLocal("salmon", 10)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestSearchSkipsSourceWhenLocalSuffices(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	source := &stubSource{}
	svc := NewCatalogService(db, source, 1)

	testhelpers.CreateTestFood(t, db, "1", "Oats, rolled", 13, 379)

	items, err := svc.Search(context.Background(), "oats")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Zero(t, source.searchCalls)
}

func TestSearchDegradesToLocalOnSourceFailure(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	source := &stubSource{err: errors.New("connection refused")}
	svc := NewCatalogService(db, source, 5)

	testhelpers.CreateTestFood(t, db, "1", "Lentils, cooked", 9, 116)

	items, err := svc.Search(context.Background(), "lentils")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lentils, cooked", items[0].Name)
}

func TestGetNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, nil, 5)

	_, err := svc.Get("b7cb7af1-94a1-4f8e-8d3d-000000000000")
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestRefresh(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	source := &stubSource{fetchRecord: &NormalizedFood{
		FdcID:           "555",
		Name:            "Greek Yogurt",
		ProteinPer100g:  10.2,
		CaloriesPer100g: 59,
	}}
	svc := NewCatalogService(db, source, 5)

	item, err := svc.Refresh(context.Background(), "555")
	require.NoError(t, err)
	assert.Equal(t, "Greek Yogurt", item.Name)

	// A refresh with corrected data overwrites the cached row.
	source.fetchRecord.ProteinPer100g = 11
	item, err = svc.Refresh(context.Background(), "555")
	require.NoError(t, err)
	assert.Equal(t, 11.0, item.ProteinPer100g)

	// Unknown upstream records surface as not found.
	source.fetchRecord = nil
	_, err = svc.Refresh(context.Background(), "404")
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

// rivalInsert registers a one-shot create callback that inserts rows via a
// separate session just before the observed model's own INSERT runs, forcing
// the insert into a unique-index collision.
func rivalInsert(t *testing.T, db *gorm.DB, matches func(dest interface{}) bool, insert func(rival *gorm.DB)) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_insert", func(tx *gorm.DB) {
		if fired || !matches(tx.Statement.Dest) {
			return
		}
		fired = true
		insert(db.Session(&gorm.Session{NewDB: true}))
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Callback().Create().Remove("rival_insert") })
}

func TestUpsertLosingRaceBecomesUpdate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, nil, 5)

	var rivalID uuid.UUID
	rivalInsert(t, db,
		func(dest interface{}) bool {
			_, ok := dest.(*models.FoodItem)
			return ok
		},
		func(rival *gorm.DB) {
			row := models.FoodItem{
				FdcID:           "777",
				Name:            "Cheddar",
				ProteinPer100g:  5,
				CaloriesPer100g: 50,
			}
			require.NoError(t, rival.Create(&row).Error)
			rivalID = row.ID
		})

	item, created, err := svc.Upsert(NormalizedFood{
		FdcID:           "777",
		Name:            "Cheddar, sharp",
		ProteinPer100g:  9,
		CaloriesPer100g: 90,
	})
	require.NoError(t, err)

	// The loser adopts the surviving row and applies its changes there.
	assert.False(t, created)
	assert.Equal(t, rivalID, item.ID)
	assert.Equal(t, "Cheddar, sharp", item.Name)
	assert.Equal(t, 9.0, item.ProteinPer100g)

	var count int64
	require.NoError(t, db.Model(&models.FoodItem{}).Where("fdc_id = ?", "777").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
