package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"idreview/internal/domain"
	"idreview/internal/preview"
	"idreview/internal/service"
	"idreview/mocks"
)

type countingObserver struct {
	mu                       sync.Mutex
	opened, closed, releases int
}

func (o *countingObserver) ObserveTransition(string) {}

func (o *countingObserver) ObservePreviewReleased() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.releases++
}

func (o *countingObserver) SessionOpened() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened++
}

func (o *countingObserver) SessionClosed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed++
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newService(gw *mocks.MockRemoteGateway, store *preview.Store, obs *countingObserver, clock *fakeClock) service.SessionService {
	return service.NewSessionServiceWithClock(gw, store, obs, service.SessionServiceConfig{
		HistoryLimit: 3,
		MaxFileBytes: 1 << 20,
	}, clock.Now)
}

func TestSessionService_CreateLoadsHistory(t *testing.T) {
	gw := new(mocks.MockRemoteGateway)
	gw.On("List", mock.Anything, 3).Return([]domain.Document{{ID: 4}, {ID: 2}}, nil).Once()
	obs := &countingObserver{}
	svc := newService(gw, preview.NewStore(), obs, &fakeClock{now: time.Now()})

	sess, err := svc.Create(context.Background())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.Len(t, sess.Controller.History(), 2)
	assert.Equal(t, 1, svc.Count())
	assert.Equal(t, 1, obs.opened)
	gw.AssertExpectations(t)
}

func TestSessionService_CreateSurvivesHistoryFailure(t *testing.T) {
	gw := new(mocks.MockRemoteGateway)
	gw.On("List", mock.Anything, 3).Return(nil, errors.New("connection refused"))
	svc := newService(gw, preview.NewStore(), &countingObserver{}, &fakeClock{now: time.Now()})

	sess, err := svc.Create(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "History Error: refreshing history: connection refused", sess.Controller.State().Error)
}

func TestSessionService_GetAndClose(t *testing.T) {
	gw := new(mocks.MockRemoteGateway)
	gw.On("List", mock.Anything, 3).Return([]domain.Document{}, nil)
	store := preview.NewStore()
	obs := &countingObserver{}
	svc := newService(gw, store, obs, &fakeClock{now: time.Now()})
	sess, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.NoError(t, sess.Controller.SelectFile(&domain.LocalFile{Name: "a.png", ContentType: "image/png", Data: png}))

	got, err := svc.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, svc.Close(sess.ID))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, obs.closed)
	assert.Equal(t, 1, obs.releases)

	_, err = svc.Get(sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close(sess.ID), domain.ErrSessionNotFound)
}

func TestSessionService_CloseIdle(t *testing.T) {
	gw := new(mocks.MockRemoteGateway)
	gw.On("List", mock.Anything, 3).Return([]domain.Document{}, nil)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newService(gw, preview.NewStore(), &countingObserver{}, clock)

	stale, err := svc.Create(context.Background())
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, err := svc.Create(context.Background())
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	closed := svc.CloseIdle(30 * time.Minute)

	assert.Equal(t, 1, closed)
	_, err = svc.Get(stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionService_GetKeepsSessionAlive(t *testing.T) {
	gw := new(mocks.MockRemoteGateway)
	gw.On("List", mock.Anything, 3).Return([]domain.Document{}, nil)
	clock := &fakeClock{now: time.Now()}
	svc := newService(gw, preview.NewStore(), &countingObserver{}, clock)
	sess, err := svc.Create(context.Background())
	require.NoError(t, err)

	clock.Advance(25 * time.Minute)
	_, err = svc.Get(sess.ID)
	require.NoError(t, err)
	clock.Advance(25 * time.Minute)

	assert.Equal(t, 0, svc.CloseIdle(30*time.Minute))
}

func TestSessionService_CloseAll(t *testing.T) {
	gw := new(mocks.MockRemoteGateway)
	gw.On("List", mock.Anything, 3).Return([]domain.Document{}, nil)
	obs := &countingObserver{}
	svc := newService(gw, preview.NewStore(), obs, &fakeClock{now: time.Now()})
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background())
		require.NoError(t, err)
	}

	svc.CloseAll()

	assert.Equal(t, 0, svc.Count())
	assert.Equal(t, 3, obs.closed)
}

func TestSessionReaper_Sweep(t *testing.T) {
	svc := new(mocks.MockSessionService)
	svc.On("CloseIdle", 10*time.Minute).Return(2).Once()
	svc.On("Count").Return(1)
	reaper := service.NewSessionReaper(svc, service.SessionReaperConfig{
		SweepInterval: time.Minute,
		IdleTimeout:   10 * time.Minute,
	})

	assert.Equal(t, 2, reaper.Sweep())
	svc.AssertExpectations(t)
}

func TestSessionReaper_StartStopsOnCancel(t *testing.T) {
	svc := new(mocks.MockSessionService)
	svc.On("CloseIdle", time.Minute).Return(0).Maybe()
	reaper := service.NewSessionReaper(svc, service.SessionReaperConfig{
		SweepInterval: time.Millisecond,
		IdleTimeout:   time.Minute,
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
