// Package testutil holds fixtures shared by repository, service and handler
// tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	migration "foodgram/cmd/database/migrate"
	"foodgram/entities"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:foodgram-test-%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, model := range migration.Models() {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("automigrate %T: %v", model, err)
		}
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, username string) entities.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  string(hash),
		Role:      "user",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) entities.Tag {
	t.Helper()
	tag := entities.Tag{Name: name, Slug: slug, Color: "#E26C2D"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("create tag: %v", err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) entities.Ingredient {
	t.Helper()
	ingredient := entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	return ingredient
}

// RecipeLine is an (ingredient, amount) pair for CreateRecipe.
type RecipeLine struct {
	Ingredient entities.Ingredient
	Amount     int
}

func CreateRecipe(t *testing.T, db *gorm.DB, author entities.User, name string, tags []entities.Tag, lines ...RecipeLine) entities.Recipe {
	t.Helper()
	recipe := entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and cook.",
		ImageURL:    "https://media.example.com/recipes/" + uuid.NewString() + ".png",
		CookingTime: 10,
	}
	for i := range tags {
		recipe.Tags = append(recipe.Tags, &tags[i])
	}
	if err := db.Omit("Tags.*").Create(&recipe).Error; err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	for _, line := range lines {
		ri := entities.RecipeIngredient{RecipeID: recipe.ID, IngredientID: line.Ingredient.ID, Amount: line.Amount}
		if err := db.Create(&ri).Error; err != nil {
			t.Fatalf("create recipe ingredient: %v", err)
		}
	}
	return recipe
}

func AddToCart(t *testing.T, db *gorm.DB, user entities.User, recipe entities.Recipe) {
	t.Helper()
	if err := db.Create(&entities.ShoppingCartItem{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("add to cart: %v", err)
	}
}

func AddFavorite(t *testing.T, db *gorm.DB, user entities.User, recipe entities.Recipe) {
	t.Helper()
	if err := db.Create(&entities.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("add favorite: %v", err)
	}
}
