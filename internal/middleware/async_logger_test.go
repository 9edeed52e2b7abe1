//go:build !integration

package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// recordingLoggingService keeps every entry it receives.
type recordingLoggingService struct {
	mu      sync.Mutex
	entries []*model.LogEntry
	batches []int
	err     error
}

func (r *recordingLoggingService) CreateLog(_ context.Context, entry *model.LogEntry) error {
	return r.CreateLogs(context.Background(), []*model.LogEntry{entry})
}

func (r *recordingLoggingService) CreateLogs(_ context.Context, entries []*model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, len(entries))
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *recordingLoggingService) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func TestDefaultAsyncLoggerConfig(t *testing.T) {
	cfg := DefaultAsyncLoggerConfig()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 4, cfg.NumWorkers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestNewAsyncLogger(t *testing.T) {
	t.Run("nil logging service returns nil", func(t *testing.T) {
		assert.Nil(t, NewAsyncLogger(nil, DefaultAsyncLoggerConfig()))
	})

	t.Run("zero workers and batch size are raised to one", func(t *testing.T) {
		svc := &recordingLoggingService{}
		al := NewAsyncLogger(svc, AsyncLoggerConfig{BufferSize: 10, WriteTimeout: time.Second})
		assert.NotNil(t, al)
		assert.Equal(t, 1, al.batchSize)

		al.Log(&model.LogEntry{Level: "info", Message: "test"})
		al.Stop()
		assert.Equal(t, 1, svc.count())
	})
}

func TestAsyncLogger_Log(t *testing.T) {
	t.Run("logs within buffer size", func(t *testing.T) {
		svc := &recordingLoggingService{}
		al := NewAsyncLogger(svc, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, BatchSize: 1, WriteTimeout: time.Second})

		enqueued := 0
		for i := 0; i < 5; i++ {
			if al.Log(&model.LogEntry{Level: "info", Message: "test"}) {
				enqueued++
			}
		}

		assert.Equal(t, 5, enqueued)
		al.Stop()
		assert.Equal(t, 5, svc.count())
	})

	t.Run("logs are dropped when buffer full", func(t *testing.T) {
		blockCh := make(chan struct{})
		svc := new(mocks.MockLoggingService)
		svc.On("CreateLog", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			<-blockCh
		}).Return(nil)
		svc.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)

		al := NewAsyncLogger(svc, AsyncLoggerConfig{BufferSize: 3, NumWorkers: 1, BatchSize: 1, WriteTimeout: time.Second})

		dropped := 0
		for i := 0; i < 10; i++ {
			if !al.Log(&model.LogEntry{Level: "info", Message: "test"}) {
				dropped++
			}
		}
		assert.Greater(t, dropped, 0)

		close(blockCh)
		al.Stop()

		_, droppedStat, _, _ := al.Stats()
		assert.Equal(t, int64(dropped), droppedStat)
	})
}

func TestAsyncLogger_Batching(t *testing.T) {
	svc := &recordingLoggingService{}
	// workers start after the queue is full
	al := &AsyncLogger{
		loggingService: svc,
		entryCh:        make(chan *model.LogEntry, 100),
		stopCh:         make(chan struct{}),
		batchSize:      4,
		writeTimeout:   time.Second,
	}
	for i := 0; i < 10; i++ {
		al.Log(&model.LogEntry{Level: "info", Message: "queued"})
	}
	al.wg.Add(1)
	go al.worker()
	al.Stop()

	assert.Equal(t, 10, svc.count())
	for _, n := range svc.batches {
		assert.LessOrEqual(t, n, 4)
	}
	assert.Less(t, len(svc.batches), 10)
}

func TestAsyncLogger_Stats(t *testing.T) {
	svc := &recordingLoggingService{}
	al := NewAsyncLogger(svc, AsyncLoggerConfig{BufferSize: 100, NumWorkers: 2, BatchSize: 10, WriteTimeout: time.Second})

	for i := 0; i < 5; i++ {
		al.Log(&model.LogEntry{Level: "info", Message: "test"})
	}
	al.Stop()

	enqueued, dropped, written, errCount := al.Stats()
	assert.Equal(t, int64(5), enqueued)
	assert.Equal(t, int64(0), dropped)
	assert.Equal(t, int64(5), written)
	assert.Equal(t, int64(0), errCount)
}

func TestAsyncLogger_ErrorHandling(t *testing.T) {
	svc := &recordingLoggingService{err: errors.New("db error")}
	al := NewAsyncLogger(svc, AsyncLoggerConfig{BufferSize: 100, NumWorkers: 2, BatchSize: 10, WriteTimeout: time.Second})

	for i := 0; i < 3; i++ {
		al.Log(&model.LogEntry{Level: "info", Message: "test"})
	}
	al.Stop()

	_, _, written, errCount := al.Stats()
	assert.Equal(t, int64(0), written)
	assert.Equal(t, int64(3), errCount)
}

func TestAsyncLogger_StopDrainsQueue(t *testing.T) {
	svc := &recordingLoggingService{}
	al := NewAsyncLogger(svc, AsyncLoggerConfig{BufferSize: 100, NumWorkers: 4, BatchSize: 3, WriteTimeout: time.Second})

	for i := 0; i < 10; i++ {
		al.Log(&model.LogEntry{Level: "info", Message: "test"})
	}

	al.Stop()
	al.Stop()

	_, _, written, _ := al.Stats()
	assert.Equal(t, int64(10), written)
}

func TestGlobalAsyncLogger(t *testing.T) {
	assert.Nil(t, GetAsyncLogger())

	svc := &recordingLoggingService{}
	InitAsyncLogger(svc, DefaultAsyncLoggerConfig())
	assert.NotNil(t, GetAsyncLogger())

	GetAsyncLogger().Log(&model.LogEntry{Level: "info", Message: "test"})

	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())
	assert.Equal(t, 1, svc.count())

	StopAsyncLogger()
}

func TestInitAsyncLogger_ReplacesExisting(t *testing.T) {
	InitAsyncLogger(&recordingLoggingService{}, DefaultAsyncLoggerConfig())
	first := GetAsyncLogger()
	assert.NotNil(t, first)

	InitAsyncLogger(&recordingLoggingService{}, DefaultAsyncLoggerConfig())
	second := GetAsyncLogger()
	assert.NotNil(t, second)
	assert.NotSame(t, first, second)

	StopAsyncLogger()
}
