package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/provider"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

// RunStore хранит журнал исследовательских запусков.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRunsByUser(ctx context.Context, userID string) ([]*model.Run, error)
	GetStats(ctx context.Context) (model.Stats, error)
	Ping(ctx context.Context) error
}

// EventPublisher уведомляет внешних подписчиков о завершённых запусках.
type EventPublisher interface {
	PublishRun(ctx context.Context, event model.RunEvent) error
}

type ResearchService struct {
	Providers *provider.Set
	Runs      RunStore
	Events    EventPublisher
	Logger    *zap.Logger
	Policy    fanout.Policy
	Now       func() time.Time
}

func NewResearchService(providers *provider.Set, runs RunStore, events EventPublisher, logger *zap.Logger, policy fanout.Policy) *ResearchService {
	return &ResearchService{
		Providers: providers,
		Runs:      runs,
		Events:    events,
		Logger:    logger,
		Policy:    policy,
		Now:       time.Now,
	}
}

// ProviderMode возвращает режим поставщиков (live или mock).
func (s *ResearchService) ProviderMode() string {
	return s.Providers.Mode
}

func (s *ResearchService) Ping(ctx context.Context) error {
	return s.Runs.Ping(ctx)
}
