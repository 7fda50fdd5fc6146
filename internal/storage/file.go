package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// FileStore держит журнал в памяти и дописывает каждую запись
// строкой JSON в файл. Без пути работает только в памяти.
type FileStore struct {
	mu    sync.RWMutex
	runs  map[string]*model.Run
	order []string
	file  string
}

// NewFileStore загружает ранее сохранённые запуски из path.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		runs: make(map[string]*model.Run),
		file: path,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	if path != "" {
		logger.Info("run journal loaded", zap.String("path", path), zap.Int("runs", len(s.order)))
	}
	return s, nil
}

func (s *FileStore) load() error {
	if s.file == "" {
		return nil
	}
	file, err := os.Open(s.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // файл ещё не создан
		}
		return fmt.Errorf("open run journal: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var run model.Run
		if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
			return fmt.Errorf("decode run journal: %w", err)
		}
		s.put(&run)
	}
	return scanner.Err()
}

func (s *FileStore) put(run *model.Run) {
	if _, ok := s.runs[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
}

func (s *FileStore) SaveRun(_ context.Context, run *model.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != "" {
		if err := appendLine(s.file, data); err != nil {
			return fmt.Errorf("append run journal: %w", err)
		}
	}
	cp := *run
	s.put(&cp)
	return nil
}

func appendLine(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *FileStore) GetRun(_ context.Context, id string) (*model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, model.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// ListRunsByUser возвращает запуски пользователя, новые первыми.
func (s *FileStore) ListRunsByUser(_ context.Context, userID string) ([]*model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*model.Run
	for i := len(s.order) - 1; i >= 0; i-- {
		run := s.runs[s.order[i]]
		if run.UserID == userID {
			cp := *run
			res = append(res, &cp)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Created.After(res[j].Created) })
	return res, nil
}

func (s *FileStore) GetStats(_ context.Context) (model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]struct{})
	for _, run := range s.runs {
		if run.UserID != "" {
			users[run.UserID] = struct{}{}
		}
	}
	return model.Stats{Runs: len(s.runs), Users: len(users)}, nil
}

func (s *FileStore) Ping(_ context.Context) error {
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
