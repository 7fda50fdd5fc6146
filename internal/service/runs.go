package service

import (
	"context"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// GetRun возвращает запись журнала по id или model.ErrRunNotFound.
func (s *ResearchService) GetRun(ctx context.Context, id string) (*model.Run, error) {
	return s.Runs.GetRun(ctx, id)
}

// UserRuns возвращает краткие записи запусков пользователя.
func (s *ResearchService) UserRuns(ctx context.Context, userID string) ([]model.RunSummary, error) {
	runs, err := s.Runs.ListRunsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]model.RunSummary, 0, len(runs))
	for _, r := range runs {
		res = append(res, r.Summary())
	}
	return res, nil
}

func (s *ResearchService) Stats(ctx context.Context) (model.Stats, error) {
	return s.Runs.GetStats(ctx)
}
