package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logger"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, viewer domain.Viewer, filter domain.RecipeFilter) ([]domain.Recipe, domain.Pagination, error)
		GetRecipeDetail(ctx context.Context, viewer domain.Viewer, recipeID string) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, viewer domain.Viewer, req domain.CreateRecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, viewer domain.Viewer, recipeID string, req domain.UpdateRecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, viewer domain.Viewer, recipeID string) error
		AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeShort, error)
		RemoveFavorite(ctx context.Context, userID, recipeID string) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		userRepository       user.UserRepository
		cartRepository       shoppinglist.ShoppingListRepository
		s3                   storage.AwsS3
		log                  *logger.Logger
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	userRepository user.UserRepository,
	cartRepository shoppinglist.ShoppingListRepository,
	s3 storage.AwsS3,
	log *logger.Logger,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		userRepository:       userRepository,
		cartRepository:       cartRepository,
		s3:                   s3,
		log:                  log.With("service", "recipe"),
	}
}

func parseRecipeID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrRecipeNotFound
	}
	return parsed, nil
}

func viewerID(viewer domain.Viewer) uuid.UUID {
	if viewer.IsAnonymous() {
		return uuid.Nil
	}
	id, err := uuid.Parse(viewer.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (s *recipeService) getRecipe(ctx context.Context, id uuid.UUID) (entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Recipe{}, domain.ErrRecipeNotFound
		}
		return entities.Recipe{}, err
	}
	return recipe, nil
}

// present converts recipes into responses with the per-viewer flags filled
// in by three batch lookups.
func (s *recipeService) present(ctx context.Context, viewer domain.Viewer, recipes []entities.Recipe) ([]domain.Recipe, error) {
	res := make([]domain.Recipe, 0, len(recipes))
	uid := viewerID(viewer)

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	followed := map[uuid.UUID]bool{}
	if uid != uuid.Nil && len(recipes) > 0 {
		recipeIDs := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var err error
		if favorited, err = s.recipeRepository.GetFavoritedRecipeIDs(ctx, uid, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.cartRepository.GetCartMembership(ctx, uid, recipeIDs); err != nil {
			return nil, err
		}
		if followed, err = s.userRepository.GetFollowedAuthorIDs(ctx, uid, authorIDs); err != nil {
			return nil, err
		}
	}

	for _, r := range recipes {
		item := toRecipe(r, followed[r.AuthorID])
		if uid != uuid.Nil {
			fav, cart := favorited[r.ID], inCart[r.ID]
			item.IsFavorited = &fav
			item.IsInShoppingCart = &cart
		}
		res = append(res, item)
	}
	return res, nil
}

func toRecipe(r entities.Recipe, authorFollowed bool) domain.Recipe {
	tags := make([]domain.Tag, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, tag.ToTag(*t))
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		line := domain.RecipeIngredientResponse{
			ID:     ri.IngredientID.String(),
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.Name
			line.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, line)
	}
	sort.SliceStable(ingredients, func(i, j int) bool {
		return strings.ToLower(ingredients[i].Name) < strings.ToLower(ingredients[j].Name)
	})

	var author domain.UserResponse
	if r.Author != nil {
		author = user.ToUserResponse(*r.Author, authorFollowed)
	}

	return domain.Recipe{
		ID:          r.ID.String(),
		Tags:        tags,
		Author:      author,
		Ingredients: ingredients,
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, viewer domain.Viewer, filter domain.RecipeFilter) ([]domain.Recipe, domain.Pagination, error) {
	if filter.AuthorID != "" {
		if _, err := uuid.Parse(filter.AuthorID); err != nil {
			return []domain.Recipe{}, domain.NewPagination(filter.Page, filter.Limit, 0), nil
		}
	}

	recipes, total, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID(viewer))
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	res, err := s.present(ctx, viewer, recipes)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return res, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, viewer domain.Viewer, recipeID string) (domain.Recipe, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}

	res, err := s.present(ctx, viewer, []entities.Recipe{recipe})
	if err != nil {
		return domain.Recipe{}, err
	}
	return res[0], nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []string) ([]*entities.Tag, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.ErrRecipeTagMissing
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, domain.ErrRecipeTagMissing
	}

	res := make([]*entities.Tag, 0, len(tags))
	for i := range tags {
		res = append(res, &tags[i])
	}
	return res, nil
}

// resolveIngredients merges repeated ingredient ids into one line with the
// summed amount and checks that every ingredient exists.
func (s *recipeService) resolveIngredients(ctx context.Context, lines []domain.RecipeIngredientRequest) ([]entities.RecipeIngredient, error) {
	if len(lines) == 0 {
		return nil, domain.ErrRecipeIngredientsRequired
	}

	merged := make([]entities.RecipeIngredient, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, domain.ErrRecipeIngredientMissing
		}
		if i, ok := index[id]; ok {
			merged[i].Amount += line.Amount
			continue
		}
		index[id] = len(merged)
		merged = append(merged, entities.RecipeIngredient{IngredientID: id, Amount: line.Amount})
	}

	ids := make([]uuid.UUID, 0, len(merged))
	for _, m := range merged {
		ids = append(ids, m.IngredientID)
	}
	found, err := s.ingredientRepository.CountIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if found != int64(len(ids)) {
		return nil, domain.ErrRecipeIngredientMissing
	}
	return merged, nil
}

func (s *recipeService) uploadImage(ctx context.Context, raw string) (string, string, error) {
	img, err := storage.DecodeBase64Image(raw, storage.AllowImage...)
	if err != nil {
		return "", "", err
	}

	objectKey, err := s.s3.UploadFile(ctx, uuid.NewString()+img.Ext, img.Data, imageFolder, img.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("upload recipe image: %w", err)
	}
	return objectKey, s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) discardImage(ctx context.Context, objectKey string) {
	if objectKey == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		s.log.Warn("failed to delete recipe image", "object_key", objectKey, "error", err)
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, viewer domain.Viewer, req domain.CreateRecipeRequest) (domain.Recipe, error) {
	authorID := viewerID(viewer)
	if authorID == uuid.Nil {
		return domain.Recipe{}, domain.ErrUnauthorized
	}
	if req.Image == "" {
		return domain.Recipe{}, domain.ErrRecipeImageRequired
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.Recipe{}, err
	}
	lines, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.Recipe{}, err
	}

	objectKey, link, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    link,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, &recipe, tags, lines); err != nil {
		s.discardImage(ctx, objectKey)
		return domain.Recipe{}, err
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.GetRecipeDetail(ctx, viewer, recipe.ID.String())
}

func canModify(viewer domain.Viewer, recipe entities.Recipe) bool {
	return viewer.IsAdmin() || viewer.UserID == recipe.AuthorID.String()
}

func (s *recipeService) UpdateRecipe(ctx context.Context, viewer domain.Viewer, recipeID string, req domain.UpdateRecipeRequest) (domain.Recipe, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if !canModify(viewer, recipe) {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}

	changes := RecipeChanges{Columns: map[string]any{}}
	if req.Name != "" {
		changes.Columns["name"] = req.Name
	}
	if req.Text != "" {
		changes.Columns["text"] = req.Text
	}
	if req.CookingTime != 0 {
		changes.Columns["cooking_time"] = req.CookingTime
	}
	if req.Tags != nil {
		if changes.Tags, err = s.resolveTags(ctx, req.Tags); err != nil {
			return domain.Recipe{}, err
		}
	}
	if req.Ingredients != nil {
		if changes.Ingredients, err = s.resolveIngredients(ctx, req.Ingredients); err != nil {
			return domain.Recipe{}, err
		}
	}

	var newKey string
	if req.Image != "" {
		var link string
		if newKey, link, err = s.uploadImage(ctx, req.Image); err != nil {
			return domain.Recipe{}, err
		}
		changes.Columns["image_url"] = link
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe.ID, changes); err != nil {
		s.discardImage(ctx, newKey)
		return domain.Recipe{}, err
	}
	if newKey != "" {
		s.discardImage(ctx, s.s3.GetObjectKeyFromLink(recipe.ImageURL))
	}

	return s.GetRecipeDetail(ctx, viewer, recipe.ID.String())
}

func (s *recipeService) DeleteRecipe(ctx context.Context, viewer domain.Viewer, recipeID string) error {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return err
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(viewer, recipe) {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	s.discardImage(ctx, s.s3.GetObjectKeyFromLink(recipe.ImageURL))
	s.log.Info("recipe deleted", "recipe_id", recipe.ID, "by", viewer.UserID)
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeShort, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShort{}, domain.ErrUnauthorized
	}
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeShort{}, err
	}

	exists, err := s.recipeRepository.IsFavorited(ctx, uid, recipe.ID)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	if exists {
		return domain.RecipeShort{}, domain.ErrAlreadyFavorited
	}

	if err := s.recipeRepository.AddFavorite(ctx, &entities.Favorite{UserID: uid, RecipeID: recipe.ID}); err != nil {
		if errors.Is(err, ErrDuplicateFavorite) {
			return domain.RecipeShort{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShort{}, err
	}

	return domain.RecipeShort{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrUnauthorized
	}
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return err
	}
	if _, err := s.getRecipe(ctx, id); err != nil {
		return err
	}

	deleted, err := s.recipeRepository.RemoveFavorite(ctx, uid, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}
