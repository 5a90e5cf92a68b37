package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ai-coustics/media-enhance-go/internal/config"
	"github.com/ai-coustics/media-enhance-go/internal/enhance"
)

func main() {
	generatedName := flag.String("name", "", "generated name returned by the upload")
	fileExt := flag.String("ext", "mp3", "expected media format of the result")
	flag.Parse()

	if *generatedName == "" {
		log.Fatal("-name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	client := enhance.NewAPIClient(cfg.APIURL, cfg.APIKey, enhance.DefaultParams("MP3"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	outPath := filepath.Join(cfg.OutputDir, *generatedName+"."+*fileExt)
	n, err := client.Download(ctx, *generatedName, outPath)
	if err != nil {
		log.Fatalf("download failed: %v", err)
	}
	fmt.Printf("Downloaded %d bytes to: %s\n", n, outPath)
}
