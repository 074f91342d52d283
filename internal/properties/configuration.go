package properties

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/receipts-renamer/constants"
	"github.com/joseph-ayodele/receipts-renamer/internal/common"
)

// Configuration is read once per run and passed explicitly to the pipeline.
type Configuration struct {
	APIKey        string
	RootFolderIDs []string
	ModelName     string
}

// LoadConfiguration reads apiKey, rootFolderIds and modelName from the script scope.
// A missing apiKey or an empty folder list yields common.ErrConfigurationMissing.
func LoadConfiguration(ctx context.Context, store Store) (Configuration, error) {
	var cfg Configuration

	apiKey, ok, err := store.Get(ctx, constants.PropertyAPIKey)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", constants.PropertyAPIKey, err)
	}
	if !ok || strings.TrimSpace(apiKey) == "" {
		return cfg, common.MissingConfiguration(constants.PropertyAPIKey)
	}
	cfg.APIKey = apiKey

	rawIDs, _, err := store.Get(ctx, constants.PropertyRootFolderIDs)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", constants.PropertyRootFolderIDs, err)
	}
	cfg.RootFolderIDs = SplitFolderIDs(rawIDs)
	if len(cfg.RootFolderIDs) == 0 {
		return cfg, common.MissingConfiguration(constants.PropertyRootFolderIDs)
	}

	model, ok, err := store.Get(ctx, constants.PropertyModelName)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", constants.PropertyModelName, err)
	}
	cfg.ModelName = strings.TrimSpace(model)
	if !ok || cfg.ModelName == "" {
		cfg.ModelName = constants.DefaultModelName
	}
	return cfg, nil
}

// SplitFolderIDs splits a comma-separated list, trimming blanks.
func SplitFolderIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Seed holds the values Initialize writes into an empty store.
type Seed struct {
	APIKey        string
	RootFolderIDs string
	ModelName     string
}

// Initialize seeds the configuration when apiKey is absent and leaves an
// existing configuration untouched. It reports whether anything was written.
func Initialize(ctx context.Context, store Store, seed Seed, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	existing, ok, err := store.Get(ctx, constants.PropertyAPIKey)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", constants.PropertyAPIKey, err)
	}
	if ok && existing != "" {
		logger.Info("properties.init.skipped", "reason", "api key already set")
		return false, nil
	}

	if strings.TrimSpace(seed.APIKey) == "" {
		return false, common.MissingConfiguration(constants.PropertyAPIKey)
	}
	model := strings.TrimSpace(seed.ModelName)
	if model == "" {
		model = constants.DefaultModelName
	}
	folderIDs := strings.Join(SplitFolderIDs(seed.RootFolderIDs), ",")

	writes := []struct{ key, value string }{
		{constants.PropertyAPIKey, seed.APIKey},
		{constants.PropertyRootFolderIDs, folderIDs},
		{constants.PropertyModelName, model},
	}
	for _, w := range writes {
		if err := store.Set(ctx, w.key, w.value); err != nil {
			return false, fmt.Errorf("write %s: %w", w.key, err)
		}
	}

	logger.Info("properties.init.seeded", "root_folder_count", len(SplitFolderIDs(folderIDs)), "model", model)
	return true, nil
}
