package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/platform/logging"
	"github.com/louisbranch/savagesheet/internal/platform/timeouts"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog/loader"
	"github.com/louisbranch/savagesheet/internal/services/sheet/document"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/derive"
	storagesqlite "github.com/louisbranch/savagesheet/internal/services/sheet/storage/sqlite"
)

// RuntimeConfig locates the content, setting and database a command runs against.
type RuntimeConfig struct {
	CatalogDir  string `env:"SAVAGESHEET_CATALOG_DIR" envDefault:"content"`
	SettingPath string `env:"SAVAGESHEET_SETTING"`
	// DBPath enables persistence. Empty keeps characters in memory only.
	DBPath string `env:"SAVAGESHEET_DB_PATH"`
}

// Runtime is a fully wired service plus the resources it owns.
type Runtime struct {
	Service  *Service
	Catalog  *catalog.Catalog
	Setting  catalog.Setting
	Warnings []loader.Warning

	store *storagesqlite.Store
}

// Close releases the runtime's database handle.
func (r *Runtime) Close() error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.Close()
}

// Bootstrap loads content and the setting, opens storage when configured
// and builds the service.
func Bootstrap(ctx context.Context, cfg RuntimeConfig, logger *zap.Logger) (*Runtime, error) {
	logger = logging.OrNop(logger)

	loaded, err := loader.LoadDir(cfg.CatalogDir, loader.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	setting := catalog.DefaultSetting()
	if path := strings.TrimSpace(cfg.SettingPath); path != "" {
		if setting, err = catalog.LoadSetting(path); err != nil {
			return nil, fmt.Errorf("load setting: %w", err)
		}
	}

	rt := &Runtime{Catalog: loaded.Catalog, Setting: setting, Warnings: loaded.Warnings}
	opts := []Option{WithLogger(logger)}
	if path := strings.TrimSpace(cfg.DBPath); path != "" {
		openCtx, cancel := context.WithTimeout(ctx, timeouts.StoreOpen)
		store, err := storagesqlite.Open(openCtx, path)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("open character store: %w", err)
		}
		rt.store = store
		opts = append(opts, WithStore(store))
	}

	rt.Service, err = New(
		derive.New(loaded.Catalog, setting, derive.WithLogger(logger)),
		document.New(loaded.Catalog, document.WithLogger(logger)),
		opts...,
	)
	if err != nil {
		return nil, errors.Join(err, rt.Close())
	}
	logger.Info("sheet runtime ready",
		zap.String("setting", setting.ID),
		zap.Int("files", len(loaded.Files)),
		zap.Bool("persistent", rt.store != nil),
	)
	return rt, nil
}
