package search

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/laundromat-finder/internal/domain"
	"github.com/laundromat-finder/internal/pkg/errors"
	"github.com/laundromat-finder/internal/usecase/dto"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockLaundromatSearcher is a mock of LaundromatSearcher
type MockLaundromatSearcher struct {
	mock.Mock
}

func (m *MockLaundromatSearcher) Search(ctx context.Context, req dto.LaundromatSearchRequest) (*dto.LaundromatSearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LaundromatSearchResponse), args.Error(1)
}

const testGroup = "test-group"

func newTestWorker() (*SearchWorker, *MockStreamRepository, *MockLaundromatSearcher) {
	stream := &MockStreamRepository{}
	searcher := &MockLaundromatSearcher{}
	w := NewSearchWorker(stream, searcher, rate.NewLimiter(rate.Inf, 1), testGroup, zap.NewNop())
	return w, stream, searcher
}

func message(t *testing.T, id string, event domain.SearchRequestedEvent) domain.StreamMessage {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestSearchWorker_Name(t *testing.T) {
	w, _, _ := newTestWorker()
	assert.Equal(t, "laundromat-search", w.Name())
	assert.Equal(t, testGroup, w.ConsumerGroup())
}

func TestSearchWorker_ProcessBatch_EmptyQueue(t *testing.T) {
	w, stream, searcher := newTestWorker()
	ctx := context.Background()

	stream.On("ConsumeBatch", ctx, domain.StreamLaundromatSearch, testGroup, w.ConsumerName(), maxBatchSize).
		Return(nil, nil)

	processed, err := w.processBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	stream.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearchWorker_ProcessBatch_ConsumeError(t *testing.T) {
	w, stream, _ := newTestWorker()
	ctx := context.Background()

	stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("connection refused"))

	processed, err := w.processBatch(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, processed)
}

func TestSearchWorker_ProcessBatch(t *testing.T) {
	w, stream, searcher := newTestWorker()
	ctx := context.Background()

	okID := uuid.New()
	notFoundID := uuid.New()
	brokenID := uuid.New()
	radius := 2.0
	limit := 10

	messages := []domain.StreamMessage{
		message(t, "1-0", domain.SearchRequestedEvent{RequestID: okID, Query: "Springfield", RadiusKm: &radius, MaxResults: &limit}),
		{ID: "2-0", Data: "{not json"},
		{ID: "3-0", Data: ""},
		message(t, "4-0", domain.SearchRequestedEvent{RequestID: notFoundID, Query: "Qwxzplorp123"}),
		message(t, "5-0", domain.SearchRequestedEvent{RequestID: brokenID, Query: "Boom"}),
	}

	response := &dto.LaundromatSearchResponse{
		Center:  domain.Center{Lat: 1, Lon: 2, DisplayName: "Springfield"},
		Count:   0,
		Results: []domain.Laundromat{},
	}

	stream.On("ConsumeBatch", ctx, domain.StreamLaundromatSearch, testGroup, w.ConsumerName(), maxBatchSize).
		Return(messages, nil)

	searcher.On("Search", ctx, dto.LaundromatSearchRequest{Query: "Springfield", RadiusKm: 2.0, MaxResults: 10}).
		Return(response, nil)
	searcher.On("Search", ctx, dto.LaundromatSearchRequest{Query: "Qwxzplorp123", RadiusKm: 5.0, MaxResults: 50}).
		Return(nil, errors.ErrLocationNotFound)
	searcher.On("Search", ctx, dto.LaundromatSearchRequest{Query: "Boom", RadiusKm: 5.0, MaxResults: 50}).
		Return(nil, fmt.Errorf("unexpected"))

	stream.On("PublishToStream", ctx, domain.StreamLaundromatDone, domain.SearchCompletedEvent{
		RequestID: okID,
		Response:  response,
	}).Return(nil).Once()
	stream.On("PublishToStream", ctx, domain.StreamLaundromatDone, domain.SearchCompletedEvent{
		RequestID: notFoundID,
		Error:     &domain.StreamError{Code: "LOCATION_NOT_FOUND", Message: "Location not found. Try a different search."},
	}).Return(nil).Once()
	// Ошибка публикации не мешает подтвердить сообщение
	stream.On("PublishToStream", ctx, domain.StreamLaundromatDone, domain.SearchCompletedEvent{
		RequestID: brokenID,
		Error:     &domain.StreamError{Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"},
	}).Return(fmt.Errorf("redis down")).Once()

	stream.On("AckMessages", mock.Anything, domain.StreamLaundromatSearch, testGroup,
		[]string{"1-0", "2-0", "3-0", "4-0", "5-0"}).Return(nil).Once()

	processed, err := w.processBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, processed)

	stream.AssertExpectations(t)
	searcher.AssertExpectations(t)
}

func TestSearchWorker_ProcessBatch_StoppedMidBatch(t *testing.T) {
	w, stream, searcher := newTestWorker()
	ctx := context.Background()

	messages := []domain.StreamMessage{
		{ID: "1-0", Data: "garbage"},
		message(t, "2-0", domain.SearchRequestedEvent{RequestID: uuid.New(), Query: "Paris"}),
	}

	stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(messages, nil)
	stream.On("AckMessages", mock.Anything, domain.StreamLaundromatSearch, testGroup, []string{"1-0"}).
		Return(nil).Once()

	require.NoError(t, w.Stop())

	processed, err := w.processBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	stream.AssertExpectations(t)
}

func TestSearchWorker_ProcessBatch_CancelledWhileThrottled(t *testing.T) {
	stream := &MockStreamRepository{}
	searcher := &MockLaundromatSearcher{}
	// Один токен в час: второй поиск упрётся в limiter
	w := NewSearchWorker(stream, searcher, rate.NewLimiter(rate.Every(time.Hour), 1), testGroup, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := message(t, "1-0", domain.SearchRequestedEvent{RequestID: uuid.New(), Query: "Paris"})
	second := message(t, "2-0", domain.SearchRequestedEvent{RequestID: uuid.New(), Query: "Rome"})

	stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{first, second}, nil)
	searcher.On("Search", ctx, mock.Anything).Return(&dto.LaundromatSearchResponse{Results: []domain.Laundromat{}}, nil).Once()
	stream.On("PublishToStream", ctx, domain.StreamLaundromatDone, mock.Anything).Return(nil).Once()
	stream.On("AckMessages", mock.Anything, domain.StreamLaundromatSearch, testGroup, []string{"1-0"}).
		Return(nil).Once()

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	processed, err := w.processBatch(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, processed)

	stream.AssertExpectations(t)
	searcher.AssertExpectations(t)
}

func TestSearchWorker_StartStops(t *testing.T) {
	w, stream, _ := newTestWorker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream.On("CreateConsumerGroup", ctx, domain.StreamLaundromatSearch, testGroup).Return(nil)
	stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(5 * time.Millisecond) }).
		Return(nil, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSearchWorker_StartFailsWithoutGroup(t *testing.T) {
	w, stream, _ := newTestWorker()
	ctx := context.Background()

	stream.On("CreateConsumerGroup", ctx, domain.StreamLaundromatSearch, testGroup).
		Return(fmt.Errorf("NOAUTH"))

	assert.Error(t, w.Start(ctx))
	stream.AssertNotCalled(t, "ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToStreamError(t *testing.T) {
	se := toStreamError(fmt.Errorf("wrapped: %w", errors.ErrUpstreamError))
	assert.Equal(t, "UPSTREAM_ERROR", se.Code)

	se = toStreamError(errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"query": "required"}))
	assert.Equal(t, "INVALID_REQUEST", se.Code)
	assert.Equal(t, "Invalid request parameters", se.Message)

	se = toStreamError(fmt.Errorf("boom"))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", se.Code)
}
