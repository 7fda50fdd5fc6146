// Package fanout выполняет набор независимых внешних вызовов параллельно
// и собирает их результаты в один ответ, не теряя успешные при частичных отказах.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateTarget возвращается, если в пачке два вызова с одним именем цели.
	ErrDuplicateTarget = errors.New("duplicate target in batch")
	// ErrEmptyTarget возвращается для вызова без имени цели.
	ErrEmptyTarget = errors.New("empty target name")
)

// Call описывает один исходящий вызов. Параметры должны быть
// провалидированы вызывающим кодом до Dispatch.
type Call struct {
	Target string
	Do     func(ctx context.Context) (any, error)
}

// Fail возвращает вызов, который сразу завершается ошибкой err без сетевого ввода-вывода.
// Используется, когда параметры цели не прошли валидацию.
func Fail(target string, err error) Call {
	return Call{
		Target: target,
		Do: func(context.Context) (any, error) {
			return nil, err
		},
	}
}

// Result итог одного вызова: либо Payload, либо Err.
type Result struct {
	Target  string
	Payload any
	Err     error
}

// OK сообщает, завершился ли вызов успешно.
func (r Result) OK() bool {
	return r.Err == nil
}

// Pending ещё не завершённый вызов.
type Pending struct {
	target string
	done   chan struct{}
	res    Result
}

// Target возвращает имя цели вызова.
func (p *Pending) Target() string {
	return p.target
}

// Wait блокируется до завершения вызова. Безопасен для одновременного вызова
// из нескольких горутин, все получают один и тот же результат.
func (p *Pending) Wait() Result {
	<-p.done
	return p.res
}

// Dispatch запускает все вызовы одновременно и возвращает ожидающие результаты
// в том же порядке. Все горутины стартуют до возврата из Dispatch.
func Dispatch(ctx context.Context, calls []Call) ([]*Pending, error) {
	seen := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		if c.Target == "" {
			return nil, ErrEmptyTarget
		}
		if _, ok := seen[c.Target]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTarget, c.Target)
		}
		seen[c.Target] = struct{}{}
	}

	pending := make([]*Pending, 0, len(calls))
	for _, c := range calls {
		p := &Pending{target: c.Target, done: make(chan struct{})}
		go execute(ctx, c, p)
		pending = append(pending, p)
	}
	return pending, nil
}

// execute записывает ровно один результат на вызов, в том числе при панике,
// и только после этого закрывает done.
func execute(ctx context.Context, c Call, p *Pending) {
	defer close(p.done)
	defer func() {
		if rec := recover(); rec != nil {
			p.res = Result{Target: c.Target, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	if c.Do == nil {
		p.res = Result{Target: c.Target, Err: errors.New("no call function")}
		return
	}
	payload, err := c.Do(ctx)
	if err != nil {
		payload = nil
	}
	p.res = Result{Target: c.Target, Payload: payload, Err: err}
}

// Collect ждёт завершения всех вызовов (fan-in барьер) и собирает Aggregate.
func Collect(pending []*Pending) Aggregate {
	agg := make(Aggregate, len(pending))
	for _, p := range pending {
		agg[p.Target()] = p.Wait()
	}
	return agg
}

// Aggregate хранит результаты пачки по имени цели.
type Aggregate map[string]Result

// Targets возвращает имена целей в отсортированном порядке.
func (a Aggregate) Targets() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a Aggregate) Succeeded() int {
	n := 0
	for _, r := range a {
		if r.OK() {
			n++
		}
	}
	return n
}

func (a Aggregate) Failed() int {
	return len(a) - a.Succeeded()
}

// FailedTargets возвращает отсортированные имена целей с ошибкой.
func (a Aggregate) FailedTargets() []string {
	var names []string
	for _, name := range a.Targets() {
		if !a[name].OK() {
			names = append(names, name)
		}
	}
	return names
}

// Render превращает агрегат в JSON-совместимую карту: payload для успешных
// целей и {"error": "..."} для неуспешных.
func (a Aggregate) Render() map[string]any {
	out := make(map[string]any, len(a))
	for name, r := range a {
		out[name] = Describe(r)
	}
	return out
}
