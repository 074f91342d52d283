package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/joseph-ayodele/receipts-renamer/internal/bootstrap"
	"github.com/joseph-ayodele/receipts-renamer/internal/common"
	"github.com/joseph-ayodele/receipts-renamer/internal/pipeline"
)

var (
	app     *bootstrap.App
	once    sync.Once
	initErr error

	// One run at a time; overlapping scheduler hits are rejected.
	running sync.Mutex
)

type runResponse struct {
	RunID        string `json:"runId"`
	Scanned      int    `json:"scanned"`
	Renamed      int    `json:"renamed"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	RootFailures int    `json:"rootFailures"`
	WalkErrors   int    `json:"walkErrors"`
}

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleRename", handleRename)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := funcframework.StartHostPort("", port); err != nil {
		slog.Error("funcframework.start_failed", "error", err)
		os.Exit(1)
	}
}

// handleRename runs one full pass over the configured root folders.
func handleRename(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg, err := common.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		app, initErr = bootstrap.New(context.Background(), cfg, slog.Default())
	})
	if initErr != nil {
		slog.Error("Critical: renamer initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	if !running.TryLock() {
		http.Error(w, "Conflict: a run is already in progress", http.StatusConflict)
		return
	}
	defer running.Unlock()

	sum, err := app.RunOnce(r.Context())
	if err != nil && !pipeline.IsInterrupted(err) {
		// RunOnce logs the failure.
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrConfigurationMissing) {
			status = http.StatusPreconditionFailed
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toResponse(sum)); err != nil {
		slog.Error("Failed to write response", "error", err, "runId", sum.RunID)
	}
}

func toResponse(sum pipeline.Summary) runResponse {
	return runResponse{
		RunID:        sum.RunID,
		Scanned:      sum.Scanned,
		Renamed:      sum.Renamed,
		Skipped:      sum.Skipped,
		Failed:       sum.Failed,
		RootFailures: sum.RootFailures,
		WalkErrors:   sum.WalkErrors,
	}
}
