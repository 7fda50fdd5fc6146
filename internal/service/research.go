package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
)

// Outcome результат исследовательского запуска.
type Outcome struct {
	RunID     string
	Aggregate fanout.Aggregate
}

// Research параллельно запрашивает погоду, новости и курс валют и
// возвращает агрегат по всем трём целям.
//
// Ошибка валидации одного поля валит только свою цель. Журнал и событие
// пишутся всегда, до применения политики; их сбои только логируются.
// В режиме all-or-nothing при частичном отказе возвращается *fanout.AggregateError,
// RunID при этом всё равно заполнен.
func (s *ResearchService) Research(ctx context.Context, userID string, req model.ResearchRequest) (*Outcome, error) {
	start := s.Now()

	pending, err := fanout.Dispatch(ctx, s.researchCalls(req))
	if err != nil {
		return nil, err
	}
	agg := fanout.Collect(pending)
	elapsed := s.Now().Sub(start)

	run := &model.Run{
		ID:         uuid.NewString(),
		UserID:     userID,
		Request:    req,
		Succeeded:  agg.Succeeded(),
		Failed:     agg.Failed(),
		Policy:     s.Policy.String(),
		DurationMS: elapsed.Milliseconds(),
		Created:    start.UTC(),
	}

	s.Logger.Info("research run finished",
		zap.String("run_id", run.ID),
		zap.String("city", req.City),
		zap.Int("succeeded", run.Succeeded),
		zap.Int("failed", run.Failed),
		zap.Duration("elapsed", elapsed),
	)

	s.record(ctx, run, agg)

	out, err := s.Policy.Apply(agg)
	if err != nil {
		return &Outcome{RunID: run.ID}, err
	}
	return &Outcome{RunID: run.ID, Aggregate: out}, nil
}

func (s *ResearchService) researchCalls(req model.ResearchRequest) []fanout.Call {
	calls := make([]fanout.Call, 0, 3)

	city, err := normalizeCity(req.City)
	if err != nil {
		calls = append(calls, fanout.Fail(model.TargetWeather, err))
	} else {
		calls = append(calls, fanout.Call{
			Target: model.TargetWeather,
			Do: func(ctx context.Context) (any, error) {
				return s.Providers.Weather.CurrentWeather(ctx, city)
			},
		})
	}

	query := strings.TrimSpace(req.NewsQuery)
	if query == "" && city != "" {
		query = city + " travel OR tourism"
	}
	q, err := normalizeNewsQuery(query, DefaultLanguage, ResearchPageSize)
	if err != nil {
		calls = append(calls, fanout.Fail(model.TargetNews, err))
	} else {
		calls = append(calls, fanout.Call{
			Target: model.TargetNews,
			Do: func(ctx context.Context) (any, error) {
				return s.Providers.News.SearchNews(ctx, q)
			},
		})
	}

	from, to, amount, err := normalizeExchange(req.FromCurrency, req.ToCurrency, req.Amount)
	if err != nil {
		calls = append(calls, fanout.Fail(model.TargetExchange, err))
	} else {
		calls = append(calls, fanout.Call{
			Target: model.TargetExchange,
			Do: func(ctx context.Context) (any, error) {
				return s.convert(ctx, from, to, amount)
			},
		})
	}

	return calls
}

func (s *ResearchService) record(ctx context.Context, run *model.Run, agg fanout.Aggregate) {
	body, err := json.Marshal(agg.Render())
	if err != nil {
		s.Logger.Warn("failed to encode aggregate", zap.String("run_id", run.ID), zap.Error(err))
	} else {
		run.Response = body
	}

	if err := s.Runs.SaveRun(ctx, run); err != nil {
		s.Logger.Error("failed to save run", zap.String("run_id", run.ID), zap.Error(err))
	}

	event := model.RunEvent{
		RunID:         run.ID,
		UserID:        run.UserID,
		Succeeded:     run.Succeeded,
		Failed:        run.Failed,
		FailedTargets: agg.FailedTargets(),
		Policy:        run.Policy,
		DurationMS:    run.DurationMS,
	}
	if err := s.Events.PublishRun(ctx, event); err != nil {
		s.Logger.Warn("failed to publish run event", zap.String("run_id", run.ID), zap.Error(err))
	}
}
