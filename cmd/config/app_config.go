package config

import (
	"io"
	"os"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/routes"
	"foodgram/internal/logger"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const defaultRateLimitMax = 10

// Dependencies are the external collaborators of the HTTP app. NewApp fills
// them from the loaded configuration.
type Dependencies struct {
	JWTService   jwt.JWTService
	Storage      storage.AwsS3
	Mailer       mailing.Mailer
	Logger       *logger.Logger
	AccessLog    io.Writer
	AppURL       string
	RateLimitMax int
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	log.Info("initializing app")

	appLogger, err := logger.New(utils.GetConfig("LOG_MODE"))
	if err != nil {
		return nil, err
	}

	// setting up logging
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}

	var denylist jwt.TokenDenylist
	if addr := utils.GetConfig("REDIS_ADDR"); addr != "" {
		denylist, err = jwt.NewRedisDenylist(addr, utils.GetConfig("REDIS_PASSWORD"))
		if err != nil {
			return nil, err
		}
		appLogger.Info("token denylist backed by redis", "addr", addr)
	} else {
		denylist = jwt.NewMemoryDenylist()
		appLogger.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
	}

	mailConfig := mailing.LoadMailConfig()

	app := NewAppWithDependencies(db, Dependencies{
		JWTService:   jwt.NewJWTService(utils.GetConfig("JWT_SECRET"), denylist),
		Storage:      storage.NewAwsS3(),
		Mailer:       mailing.NewMailer(mailConfig),
		Logger:       appLogger,
		AccessLog:    file,
		AppURL:       mailConfig.AppURL,
		RateLimitMax: utils.GetConfigInt("RATE_LIMIT_MAX", defaultRateLimitMax),
	})
	app.Hooks().OnShutdown(file.Close)
	return app, nil
}

func NewAppWithDependencies(db *gorm.DB, deps Dependencies) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		BodyLimit:   10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	app.Hooks().OnShutdown(func() error {
		deps.Logger.Sync()
		return nil
	})

	app.Use(recover.New())
	if deps.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "UTC",
			Output:     deps.AccessLog,
		}))
	}
	if deps.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)

	// Service
	userService := user.NewUserService(userRepository, deps.JWTService, deps.Mailer, deps.AppURL, deps.Logger)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		tagRepository,
		ingredientRepository,
		userRepository,
		shoppingListRepository,
		deps.Storage,
		deps.Logger,
	)
	shoppingListService := shoppinglist.NewShoppingListService(shoppingListRepository, deps.Logger)

	// Handler
	authHandler := handlers.NewAuthHandler(userService, validator)
	userHandler := handlers.NewUserHandler(userService, validator)
	tagHandler := handlers.NewTagHandler(tagService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	shoppingListHandler := handlers.NewShoppingListHandler(shoppingListService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		TagHandler:          tagHandler,
		IngredientHandler:   ingredientHandler,
		RecipeHandler:       recipeHandler,
		ShoppingListHandler: shoppingListHandler,
		Middleware:          middlewares,
		JWTService:          deps.JWTService,
	}
	routesConfig.Setup()
	return app
}
