package search

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/laundromat-finder/internal/domain"
	"github.com/laundromat-finder/internal/domain/repository"
	"github.com/laundromat-finder/internal/pkg/errors"
	"github.com/laundromat-finder/internal/usecase/dto"
	"github.com/laundromat-finder/internal/worker"
)

const (
	maxBatchSize     = 10 // максимум сообщений за одно чтение
	errorBackoff     = time.Second
	searchWorkerName = "laundromat-search"
)

// LaundromatSearcher - поиск прачечных, реализуется usecase.LaundromatUseCase
type LaundromatSearcher interface {
	Search(ctx context.Context, req dto.LaundromatSearchRequest) (*dto.LaundromatSearchResponse, error)
}

// SearchWorker читает запросы на поиск из stream:laundromat:search и публикует
// результаты в stream:laundromat:done. Поиски выполняются по одному и
// ограничены limiter'ом, чтобы не нарушать политику использования Nominatim.
type SearchWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	searcher   LaundromatSearcher
	limiter    *rate.Limiter
}

// NewSearchWorker создает новый SearchWorker
func NewSearchWorker(
	streamRepo repository.StreamRepository,
	searcher LaundromatSearcher,
	limiter *rate.Limiter,
	consumerGroup string,
	logger *zap.Logger,
) *SearchWorker {
	return &SearchWorker{
		BaseWorker: worker.NewBaseWorker(searchWorkerName, consumerGroup, logger),
		streamRepo: streamRepo,
		searcher:   searcher,
		limiter:    limiter,
	}
}

// Start запускает воркер
func (w *SearchWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SearchWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_batch_size", maxBatchSize),
		zap.Float64("searches_per_second", float64(w.limiter.Limit())))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamLaundromatSearch, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		// Чтение из стрима само блокируется, пока нет сообщений
		if _, err := w.processBatch(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(ctx, errorBackoff)
		}
	}
}

// processBatch читает и обрабатывает пачку сообщений.
// Возвращает количество подтверждённых сообщений.
func (w *SearchWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamLaundromatSearch,
		w.ConsumerGroup(),
		w.ConsumerName(),
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	handled := make([]string, 0, len(messages))
	var interrupted error

	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			// Битое сообщение подтверждаем, чтобы оно не застревало в pending
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			handled = append(handled, msg.ID)
			continue
		}

		// Остановка посреди пачки: оставшиеся сообщения остаются в pending
		if w.IsStopped() {
			break
		}
		if err := w.limiter.Wait(ctx); err != nil {
			interrupted = err
			break
		}

		w.handleEvent(ctx, event)
		handled = append(handled, msg.ID)
	}

	// Уже выполненные поиски подтверждаем даже после отмены ctx
	ackCtx := context.WithoutCancel(ctx)
	if err := w.streamRepo.AckMessages(ackCtx, domain.StreamLaundromatSearch, w.ConsumerGroup(), handled); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
		return 0, err
	}

	return len(handled), interrupted
}

// handleEvent выполняет поиск и публикует результат. Ошибка публикации
// только логируется: сообщение всё равно будет подтверждено.
func (w *SearchWorker) handleEvent(ctx context.Context, event *domain.SearchRequestedEvent) {
	logger := w.Logger().With(
		zap.String("request_id", event.RequestID.String()),
		zap.String("query", event.Query))

	radiusKm, maxResults := event.SearchParams()
	req := dto.LaundromatSearchRequest{
		Query:      event.Query,
		RadiusKm:   radiusKm,
		MaxResults: maxResults,
	}

	done := domain.SearchCompletedEvent{RequestID: event.RequestID}

	resp, err := w.searcher.Search(ctx, req)
	if err != nil {
		done.Error = toStreamError(err)
		logger.Info("Search finished with error", zap.String("code", done.Error.Code))
	} else {
		done.Response = resp
		logger.Info("Search finished", zap.Int("count", resp.Count))
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamLaundromatDone, done); err != nil {
		logger.Error("Failed to publish search result", zap.Error(err))
	}
}

// parseMessage разбирает JSON из поля data в SearchRequestedEvent
func parseMessage(msg domain.StreamMessage) (*domain.SearchRequestedEvent, error) {
	if strings.TrimSpace(msg.Data) == "" {
		return nil, fmt.Errorf("missing or empty 'data' field")
	}

	var event domain.SearchRequestedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

func toStreamError(err error) *domain.StreamError {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.ErrInternalServer
	}
	return &domain.StreamError{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
}
