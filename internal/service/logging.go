package service

import (
	"context"
	"strings"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxLogBatch caps one InsertMany so a drained queue never becomes a single huge write.
const maxLogBatch = 500

// LoggingService persists request and audit log entries.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
}

// LoggingServiceImpl implements the LoggingService interface.
type LoggingServiceImpl struct {
	repo     repository.LogsRepositoryInterface
	maxBatch int
	now      func() time.Time
}

// NewLoggingService creates a new logging service implementation.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{
		repo:     repo,
		maxBatch: maxLogBatch,
		now:      time.Now,
	}
}

// CreateLog stores a single log entry.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return nil
	}
	return s.repo.Create(ctx, s.modelToDocument(entry))
}

// CreateLogs stores entries in chunks of at most maxBatch, skipping nil
// entries. It stops at the first failed chunk.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	docs := make([]*repository.LogEntryDocument, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			docs = append(docs, s.modelToDocument(entry))
		}
	}

	batch := s.maxBatch
	if batch <= 0 {
		batch = maxLogBatch
	}
	for start := 0; start < len(docs); start += batch {
		end := min(start+batch, len(docs))
		if err := s.repo.CreateMany(ctx, docs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// modelToDocument converts a domain model to a repository document,
// filling in the ID and timestamp and normalizing the level.
func (s *LoggingServiceImpl) modelToDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	return &repository.LogEntryDocument{
		ID:         entry.ID,
		Timestamp:  entry.Timestamp,
		Level:      normalizeLevel(entry.Level),
		Message:    entry.Message,
		RequestID:  entry.RequestID,
		Method:     entry.Method,
		Path:       entry.Path,
		StatusCode: entry.StatusCode,
		Duration:   entry.Duration,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		Error:      entry.Error,
		Subject:    entry.Subject,
		ActionType: entry.ActionType,
		Fields:     entry.Fields,
	}
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "debug", "info", "warn", "error":
		return level
	case "warning":
		return "warn"
	case "":
		return "info"
	default:
		return level
	}
}
