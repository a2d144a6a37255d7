package ingredient

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientSearchIsCaseInsensitivePrefix(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	testutil.CreateIngredient(t, db, "sugar", "g")
	testutil.CreateIngredient(t, db, "Sugar syrup", "ml")
	testutil.CreateIngredient(t, db, "brown sugar", "g")
	testutil.CreateIngredient(t, db, "salt", "g")

	svc := NewIngredientService(NewIngredientRepository(db))

	found, err := svc.GetIngredients(ctx, "SUG")
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, i := range found {
		names = append(names, i.Name)
	}
	assert.ElementsMatch(t, []string{"sugar", "Sugar syrup"}, names)

	all, err := svc.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := svc.GetIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateIngredientRejectsDuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewIngredientService(NewIngredientRepository(db))

	created, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "flour", MeasurementUnit: "g"})
	require.NoError(t, err)

	_, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "flour", MeasurementUnit: "g"})
	assert.ErrorIs(t, err, domain.ErrIngredientExists)

	_, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "flour", MeasurementUnit: "cup"})
	assert.NoError(t, err, "same name with another unit is a distinct ingredient")

	got, err := svc.GetIngredient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUpsertIngredientsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)

	batch := []entities.Ingredient{{Name: "milk", MeasurementUnit: "ml"}, {Name: "egg", MeasurementUnit: "pcs"}}
	inserted, err := repo.UpsertIngredients(ctx, batch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inserted)

	again := []entities.Ingredient{{Name: "milk", MeasurementUnit: "ml"}, {Name: "butter", MeasurementUnit: "g"}}
	inserted, err = repo.UpsertIngredients(ctx, again)
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	var total int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)
}
