// Package storage выбирает и открывает хранилище журнала запусков
// по режиму из конфигурации.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/config"
	"github.com/Totarae/ResearchAggregator/internal/database"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/repositories"
)

// RunStore хранилище журнала, которое закрывается при остановке сервиса.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRunsByUser(ctx context.Context, userID string) ([]*model.Run, error)
	GetStats(ctx context.Context) (model.Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open открывает хранилище для cfg.Mode.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (RunStore, error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return repositories.NewRunRepository(db), nil
	case config.ModeSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.ModeFile, config.ModeMemory:
		return NewFileStore(cfg.FileStoragePath, logger)
	}
	return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
}
