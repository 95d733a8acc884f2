// Command smoke exercises a running ScenePulse API end to end: it registers a
// run, uploads the video (and any documents) through the returned signed
// URLs, and fetches the record back.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
	"github.com/scenepulse/scenepulse-backend/internal/service"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "scenepulse-smoke",
	})
	logger.SetDefaultLogger(appLogger)

	serverURL := flag.String("server", "http://localhost:8080", "Base URL of the API server")
	apiKey := flag.String("api-key", os.Getenv("SCENEPULSE_API_KEY"), "API key for authenticated endpoints")
	videoPath := flag.String("video", "", "Path to a video file to upload")
	docPaths := flag.String("docs", "", "Comma-separated paths of supporting documents")
	contentType := flag.String("content-type", "video/mp4", "MIME type of the video")
	projectID := flag.String("project", "smoke-test", "Project identifier to register under")
	flag.Parse()

	if *videoPath == "" {
		appLogger.Fatal("Missing required -video flag")
	}

	var docFilenames []string
	var docFiles []string
	if *docPaths != "" {
		for _, p := range strings.Split(*docPaths, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			docFiles = append(docFiles, p)
			docFilenames = append(docFilenames, filepath.Base(p))
		}
	}

	client := resty.New().
		SetBaseURL(*serverURL).
		SetHeader("x-api-key", *apiKey).
		SetTimeout(60 * time.Second)

	// Verify credentials before doing anything else
	pingResp, err := client.R().Get("/secure/ping")
	if err != nil {
		appLogger.WithError(err).Fatal("Ping request failed")
	}
	if pingResp.StatusCode() != 200 {
		appLogger.WithField("status", pingResp.StatusCode()).Fatal("API key rejected")
	}

	input := service.RegisterRunInput{
		ProjectID:     *projectID,
		CompanyName:   "Smoke Test Co",
		ContactName:   "Smoke Tester",
		ContactEmail:  "smoke@example.com",
		ContactPhone:  "555-000-0000",
		CreativeID:    "smoke-creative",
		Variant:       "A",
		VideoFilename: filepath.Base(*videoPath),
		ContentType:   *contentType,
		Label:         "smoke",
		Notes:         "registered by cmd/smoke",
		DocFilenames:  docFilenames,
	}

	var result service.RegisterRunResult
	registerResp, err := client.R().
		SetBody(&input).
		SetResult(&result).
		Post("/v1/runs")
	if err != nil {
		appLogger.WithError(err).Fatal("Registration request failed")
	}
	if registerResp.StatusCode() != 200 {
		appLogger.WithFields(logger.Fields{
			"status": registerResp.StatusCode(),
			"body":   registerResp.String(),
		}).Fatal("Registration rejected")
	}

	appLogger.WithFields(logger.Fields{
		logger.FieldRunID: result.RunID,
		"upload_urls":     len(result.UploadURLs),
	}).Info("Run registered")

	// Upload each file directly to storage through its signed URL. The
	// upload client must not send the API key or base URL of the server.
	uploader := resty.New().SetTimeout(10 * time.Minute)

	localPaths := map[string]string{"video_file": *videoPath}
	for i, p := range docFiles {
		localPaths[result.UploadURLs[i+1].Key] = p
	}

	for _, u := range result.UploadURLs {
		path, ok := localPaths[u.Key]
		if !ok {
			appLogger.WithField("key", u.Key).Fatal("No local file for upload slot")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to read upload file")
		}

		req := uploader.R().SetBody(data)
		if u.Key == "video_file" {
			req.SetHeader("Content-Type", *contentType)
		}

		uploadResp, err := req.Put(u.SignedURL)
		if err != nil {
			appLogger.WithError(err).WithField("key", u.Key).Fatal("Upload failed")
		}
		if uploadResp.StatusCode() != 200 {
			appLogger.WithFields(logger.Fields{
				"key":    u.Key,
				"status": uploadResp.StatusCode(),
				"body":   uploadResp.String(),
			}).Fatal("Upload rejected by storage")
		}

		appLogger.WithFields(logger.Fields{
			"key":  u.Key,
			"path": u.StoragePath,
		}).Info("Uploaded")
	}

	// Fetch the record back and confirm the paths match the registration.
	var record map[string]interface{}
	getResp, err := client.R().
		SetResult(&record).
		Get("/v1/runs/" + result.RunID)
	if err != nil {
		appLogger.WithError(err).Fatal("Fetch request failed")
	}
	if getResp.StatusCode() != 200 {
		appLogger.WithField("status", getResp.StatusCode()).Fatal("Fetch rejected")
	}
	if record["video_storage_path"] != result.VideoStoragePath {
		appLogger.WithFields(logger.Fields{
			"registered": result.VideoStoragePath,
			"stored":     record["video_storage_path"],
		}).Fatal("Stored video path does not match registration response")
	}

	appLogger.WithField(logger.FieldRunID, result.RunID).Info("Smoke test passed")
}
