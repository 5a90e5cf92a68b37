package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ai-coustics/media-enhance-go/internal/config"
	"github.com/ai-coustics/media-enhance-go/internal/enhance"
)

func main() {
	filePath := flag.String("file", "samples/sample.mp3", "media file to upload")
	transcodeKind := flag.String("transcode", "MP3", "output format requested from the API")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	client := enhance.NewAPIClient(cfg.APIURL, cfg.APIKey, enhance.DefaultParams(*transcodeKind))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	generatedName, err := client.Upload(ctx, *filePath)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	fmt.Printf("Uploaded file's generated name: %s\n", generatedName)

	status, err := client.Status(ctx, generatedName)
	if err != nil {
		log.Fatalf("status check failed: %v", err)
	}
	fmt.Printf("Current status: %s\n", status)
}
