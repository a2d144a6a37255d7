package recipe

import (
	"context"
	"encoding/base64"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logger"
	"foodgram/internal/testutil"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryS3 struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}}
}

func (m *memoryS3) UploadFile(_ context.Context, fileName string, content []byte, folder string, _ string) (string, error) {
	key := folder + "/" + fileName
	m.objects[key] = content
	return key, nil
}

func (m *memoryS3) DeleteFile(_ context.Context, objectKey string) error {
	delete(m.objects, objectKey)
	m.deleted = append(m.deleted, objectKey)
	return nil
}

func (m *memoryS3) GetPublicLinkKey(objectKey string) string {
	return "https://media.test/" + objectKey
}

func (m *memoryS3) GetObjectKeyFromLink(link string) string {
	const prefix = "https://media.test/"
	if len(link) <= len(prefix) || link[:len(prefix)] != prefix {
		return ""
	}
	return link[len(prefix):]
}

var pngImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

type fixture struct {
	db  *gorm.DB
	s3  *memoryS3
	svc RecipeService

	chef, reader, admin entities.User
	breakfast, dinner   entities.Tag
	sugar, flour        entities.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	s3 := newMemoryS3()
	svc := NewRecipeService(
		NewRecipeRepository(db),
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		user.NewUserRepository(db),
		shoppinglist.NewShoppingListRepository(db),
		s3,
		logger.Nop(),
	)

	f := &fixture{db: db, s3: s3, svc: svc}
	f.chef = testutil.CreateUser(t, db, "chef")
	f.reader = testutil.CreateUser(t, db, "reader")
	f.admin = testutil.CreateUser(t, db, "admin")
	require.NoError(t, db.Model(&f.admin).Update("role", domain.RoleAdmin).Error)
	f.admin.Role = domain.RoleAdmin
	f.breakfast = testutil.CreateTag(t, db, "Breakfast", "breakfast")
	f.dinner = testutil.CreateTag(t, db, "Dinner", "dinner")
	f.sugar = testutil.CreateIngredient(t, db, "sugar", "g")
	f.flour = testutil.CreateIngredient(t, db, "flour", "g")
	return f
}

func viewerOf(u entities.User) domain.Viewer {
	return domain.Viewer{UserID: u.ID.String(), Role: u.Role}
}

func (f *fixture) createPancakes(t *testing.T) domain.Recipe {
	t.Helper()
	created, err := f.svc.CreateRecipe(context.Background(), viewerOf(f.chef), domain.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Whisk and fry.",
		Image:       pngImage,
		CookingTime: 20,
		Tags:        []string{f.breakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.flour.ID.String(), Amount: 200},
			{ID: f.sugar.ID.String(), Amount: 30},
			{ID: f.sugar.ID.String(), Amount: 20},
		},
	})
	require.NoError(t, err)
	return created
}

func TestCreateRecipeMergesRepeatedIngredients(t *testing.T) {
	f := newFixture(t)
	created := f.createPancakes(t)

	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, f.chef.ID.String(), created.Author.ID)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	assert.Equal(t, []domain.RecipeIngredientResponse{
		{ID: f.flour.ID.String(), Name: "flour", MeasurementUnit: "g", Amount: 200},
		{ID: f.sugar.ID.String(), Name: "sugar", MeasurementUnit: "g", Amount: 50},
	}, created.Ingredients)
	require.NotNil(t, created.IsFavorited)
	assert.False(t, *created.IsFavorited)
	assert.Len(t, f.s3.objects, 1)
}

func TestCreateRecipeValidatesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := domain.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil.",
		Image:       pngImage,
		CookingTime: 30,
		Tags:        []string{f.dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: "00000000-0000-0000-0000-000000000001", Amount: 1}},
	}

	_, err := f.svc.CreateRecipe(ctx, viewerOf(f.chef), req)
	assert.ErrorIs(t, err, domain.ErrRecipeIngredientMissing)

	req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Amount: 1}}
	req.Tags = []string{"00000000-0000-0000-0000-000000000001"}
	_, err = f.svc.CreateRecipe(ctx, viewerOf(f.chef), req)
	assert.ErrorIs(t, err, domain.ErrRecipeTagMissing)

	req.Tags = []string{f.dinner.ID.String()}
	req.Image = "not-an-image"
	_, err = f.svc.CreateRecipe(ctx, viewerOf(f.chef), req)
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
	assert.Empty(t, f.s3.objects)
}

func TestUpdateRecipePermissionsAndReplacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createPancakes(t)

	_, err := f.svc.UpdateRecipe(ctx, viewerOf(f.reader), created.ID, domain.UpdateRecipeRequest{Name: "Stolen"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	updated, err := f.svc.UpdateRecipe(ctx, viewerOf(f.chef), created.ID, domain.UpdateRecipeRequest{
		Name:        "Thin pancakes",
		Image:       pngImage,
		Tags:        []string{f.dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Amount: 150}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Thin pancakes", updated.Name)
	assert.Equal(t, "Whisk and fry.", updated.Text)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	assert.Equal(t, []domain.RecipeIngredientResponse{
		{ID: f.flour.ID.String(), Name: "flour", MeasurementUnit: "g", Amount: 150},
	}, updated.Ingredients)
	assert.Len(t, f.s3.objects, 1, "the replaced image is deleted")
	assert.Len(t, f.s3.deleted, 1)

	byAdmin, err := f.svc.UpdateRecipe(ctx, viewerOf(f.admin), created.ID, domain.UpdateRecipeRequest{CookingTime: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, byAdmin.CookingTime)
	assert.Equal(t, "dinner", byAdmin.Tags[0].Slug, "omitted tags stay untouched")
}

func TestDeleteRecipeRemovesDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createPancakes(t)

	_, err := f.svc.AddFavorite(ctx, f.reader.ID.String(), created.ID)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&entities.ShoppingCartItem{UserID: f.reader.ID, RecipeID: uuid.MustParse(created.ID)}).Error)

	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, viewerOf(f.reader), created.ID), domain.ErrUnauthorizedRecipeAccess)
	require.NoError(t, f.svc.DeleteRecipe(ctx, viewerOf(f.chef), created.ID))

	for _, model := range []any{&entities.RecipeIngredient{}, &entities.Favorite{}, &entities.ShoppingCartItem{}, &entities.Recipe{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left behind", model)
	}
	var links int64
	require.NoError(t, f.db.Table("recipe_tags").Count(&links).Error)
	assert.Zero(t, links)
	assert.Empty(t, f.s3.objects)

	_, err = f.svc.GetRecipeDetail(ctx, domain.Viewer{}, created.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createPancakes(t)

	_, err := f.svc.AddFavorite(ctx, f.reader.ID.String(), created.ID)
	require.NoError(t, err)
	_, err = f.svc.AddFavorite(ctx, f.reader.ID.String(), created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	detail, err := f.svc.GetRecipeDetail(ctx, viewerOf(f.reader), created.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.IsFavorited)
	assert.True(t, *detail.IsFavorited)

	anonymous, err := f.svc.GetRecipeDetail(ctx, domain.Viewer{}, created.ID)
	require.NoError(t, err)
	assert.Nil(t, anonymous.IsFavorited)
	assert.Nil(t, anonymous.IsInShoppingCart)

	require.NoError(t, f.svc.RemoveFavorite(ctx, f.reader.ID.String(), created.ID))
	assert.ErrorIs(t, f.svc.RemoveFavorite(ctx, f.reader.ID.String(), created.ID), domain.ErrNotFavorited)
}

func TestGetRecipesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateRecipe(t, f.db, f.reader, "Soup", []entities.Tag{f.dinner},
		testutil.RecipeLine{Ingredient: f.flour, Amount: 10})
	porridge := testutil.CreateRecipe(t, f.db, f.chef, "Porridge", []entities.Tag{f.breakfast},
		testutil.RecipeLine{Ingredient: f.sugar, Amount: 5})
	stew := testutil.CreateRecipe(t, f.db, f.chef, "Stew", []entities.Tag{f.breakfast, f.dinner},
		testutil.RecipeLine{Ingredient: f.flour, Amount: 15})
	testutil.AddFavorite(t, f.db, f.reader, porridge)
	testutil.AddToCart(t, f.db, f.reader, stew)

	page := domain.PaginationRequest{Page: 1, Limit: domain.DefaultPageSize}
	names := func(filter domain.RecipeFilter, viewer domain.Viewer) []string {
		t.Helper()
		recipes, _, err := f.svc.GetRecipes(ctx, viewer, filter)
		require.NoError(t, err)
		out := make([]string, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Soup", "Porridge", "Stew"}, names(domain.RecipeFilter{PaginationRequest: page}, domain.Viewer{}))
	assert.ElementsMatch(t, []string{"Soup", "Stew"}, names(domain.RecipeFilter{Tags: []string{"dinner"}, PaginationRequest: page}, domain.Viewer{}))
	assert.ElementsMatch(t, []string{"Soup", "Porridge", "Stew"}, names(domain.RecipeFilter{Tags: []string{"dinner", "breakfast"}, PaginationRequest: page}, domain.Viewer{}))
	assert.ElementsMatch(t, []string{"Porridge", "Stew"}, names(domain.RecipeFilter{AuthorID: f.chef.ID.String(), PaginationRequest: page}, domain.Viewer{}))
	assert.Empty(t, names(domain.RecipeFilter{AuthorID: "nobody", PaginationRequest: page}, domain.Viewer{}))

	reader := viewerOf(f.reader)
	assert.Equal(t, []string{"Porridge"}, names(domain.RecipeFilter{IsFavorited: true, PaginationRequest: page}, reader))
	assert.Equal(t, []string{"Stew"}, names(domain.RecipeFilter{IsInShoppingCart: true, PaginationRequest: page}, reader))
	assert.Len(t, names(domain.RecipeFilter{IsFavorited: true, PaginationRequest: page}, domain.Viewer{}), 3,
		"anonymous viewers have no favorites to filter by")

	small := domain.RecipeFilter{PaginationRequest: domain.PaginationRequest{Page: 2, Limit: 2}}
	recipes, pagination, err := f.svc.GetRecipes(ctx, domain.Viewer{}, small)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
	assert.EqualValues(t, 3, pagination.Total)
	assert.EqualValues(t, 2, pagination.TotalPages)
}
