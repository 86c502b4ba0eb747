package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/linguo/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Text: "reply", Usage: Usage{InputTokens: 3, OutputTokens: 4}})
	p := WithLogging(mock, Labels{Provider: "groq", Transport: TransportPrimary}, repo, nil)

	ctx := WithPurpose(context.Background(), "lesson")
	resp, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "reply", resp.Text)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "groq", ev.Provider)
	assert.Equal(t, TransportPrimary, ev.Transport)
	assert.Equal(t, "lesson", ev.Purpose)
	assert.Equal(t, "mock", ev.Model)
	assert.True(t, ev.Success)
	assert.Equal(t, 3, ev.InputTokens)
	assert.Equal(t, 4, ev.OutputTokens)
	assert.Equal(t, "reply", ev.ResponseBody)
	assert.Contains(t, ev.RequestBody, "[system]\nsys")
	assert.Contains(t, ev.RequestBody, "[user]\nhi")
}

func TestLoggingProvider_RecordsFailureAndSurvivesRepoError(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{StatusCode: 503}})
	p := WithLogging(mock, Labels{Provider: "groq", Transport: TransportSecondary}, repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Contains(t, repo.events[0].ErrorMessage, "503")
}

func TestLoggingProvider_RecordsAfterCancel(t *testing.T) {
	repo := &recordingRepo{}
	p := WithLogging(slowProvider{}, Labels{Provider: "groq"}, repo, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	require.Error(t, err)
	assert.Len(t, repo.events, 1)
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "x"}), Labels{}, nil, nil)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "x", resp.Text)
	assert.Equal(t, "mock", p.ModelID())
}
