package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/config"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/db"
	productrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/product"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/seed"
)

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Fatalf("connect to firestore: %v", err)
	}
	defer client.Close()

	if err := seed.Apply(ctx, productrepo.NewFirestore(client)); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
