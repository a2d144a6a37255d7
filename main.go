package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/cmd/database/seed"
	"foodgram/internal/utils"
	"foodgram/pkg/ingredient"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	seedDir := flag.String("seed-ingredients", "", "load ingredients.csv / ingredients.json from `dir` and exit")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if *seedDir != "" {
		inserted, err := seed.LoadIngredients(context.Background(), ingredient.NewIngredientRepository(db), *seedDir)
		if err != nil {
			log.Fatalf("failed to load ingredients: %v", err)
		}
		log.Infof("loaded %d new ingredients from %s", inserted, *seedDir)
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
