package fanout

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Policy определяет, как агрегат реагирует на неуспешные вызовы.
type Policy int

const (
	// BestEffort сохраняет все результаты, успешные и нет.
	BestEffort Policy = iota
	// AllOrNothing отбрасывает агрегат целиком, если упал хотя бы один вызов.
	AllOrNothing
)

func (p Policy) String() string {
	switch p {
	case AllOrNothing:
		return "all-or-nothing"
	default:
		return "best-effort"
	}
}

// ParsePolicy разбирает имя политики из конфигурации.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best-effort", "besteffort":
		return BestEffort, nil
	case "all-or-nothing", "allornothing", "strict":
		return AllOrNothing, nil
	}
	return BestEffort, fmt.Errorf("unknown aggregate policy %q", s)
}

// AggregateError описывает отказ всей пачки в режиме AllOrNothing.
type AggregateError struct {
	Failures map[string]error
}

func (e *AggregateError) Error() string {
	names := e.Targets()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, Reason(e.Failures[name])))
	}
	return "aggregate failed: " + strings.Join(parts, "; ")
}

// Targets возвращает отсортированные имена упавших целей.
func (e *AggregateError) Targets() []string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply применяет политику к уже собранному агрегату.
func (p Policy) Apply(agg Aggregate) (Aggregate, error) {
	if p != AllOrNothing || agg.Failed() == 0 {
		return agg, nil
	}
	failures := make(map[string]error, agg.Failed())
	for name, r := range agg {
		if !r.OK() {
			failures[name] = r.Err
		}
	}
	return nil, &AggregateError{Failures: failures}
}

// Run выполняет Dispatch и Collect и применяет политику.
// Даже в режиме AllOrNothing Run возвращается только после завершения всех вызовов.
func Run(ctx context.Context, calls []Call, policy Policy) (Aggregate, error) {
	pending, err := Dispatch(ctx, calls)
	if err != nil {
		return nil, err
	}
	return policy.Apply(Collect(pending))
}
