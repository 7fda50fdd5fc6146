package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Run хранит запись журнала об одном исследовательском запросе.
type Run struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id,omitempty"`
	Request    ResearchRequest `json:"request"`
	Response   json.RawMessage `json:"response,omitempty"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Policy     string          `json:"policy"`
	DurationMS int64           `json:"duration_ms"`
	Created    time.Time       `json:"created"`
}

// RunSummary элемент списка запусков пользователя.
type RunSummary struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	DurationMS int64     `json:"duration_ms"`
	Created    time.Time `json:"created"`
}

// Summary сокращает Run до элемента списка.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:         r.ID,
		City:       r.Request.City,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		DurationMS: r.DurationMS,
		Created:    r.Created,
	}
}

// RunEvent публикуется в шину после каждого запуска.
type RunEvent struct {
	RunID         string   `json:"run_id"`
	UserID        string   `json:"user_id,omitempty"`
	Succeeded     int      `json:"succeeded"`
	Failed        int      `json:"failed"`
	FailedTargets []string `json:"failed_targets,omitempty"`
	Policy        string   `json:"policy"`
	DurationMS    int64    `json:"duration_ms"`
}

type Stats struct {
	Runs  int `json:"runs"`
	Users int `json:"users"`
}

// ErrRunNotFound возвращается, если запись журнала не найдена.
var ErrRunNotFound = errors.New("run not found")
