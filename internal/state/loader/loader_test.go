package loader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(raw any) []string {
	items, _ := raw.([]string)
	if items == nil {
		return []string{}
	}
	return items
}

func TestLoad_RemoteSuccess(t *testing.T) {
	r := NewResource[[]string]("test")

	res := r.Load(context.Background(), Source[[]string]{
		Remote:    func(ctx context.Context) (any, error) { return []string{"remote"}, nil },
		Mock:      func() (any, error) { return []string{"mock"}, nil },
		Normalize: names,
	})

	assert.Equal(t, []string{"remote"}, res.Data)
	assert.False(t, res.UsedFallback)
	assert.NoError(t, res.RemoteErr)
	assert.False(t, r.Loading())
	assert.True(t, r.Snapshot().Loaded)
}

func TestLoad_FallsBackOnRemoteError(t *testing.T) {
	r := NewResource[[]string]("test")
	remoteErr := errors.New("connection refused")

	var res Result[[]string]
	assert.NotPanics(t, func() {
		res = r.Load(context.Background(), Source[[]string]{
			Remote:    func(ctx context.Context) (any, error) { return nil, remoteErr },
			Mock:      func() (any, error) { return []string{"mock"}, nil },
			Normalize: names,
		})
	})

	assert.Equal(t, []string{"mock"}, res.Data)
	assert.True(t, res.UsedFallback)
	assert.ErrorIs(t, res.RemoteErr, remoteErr)
	assert.True(t, r.Snapshot().UsedFallback)
}

func TestLoad_MockUnavailableYieldsEmpty(t *testing.T) {
	failing := func(ctx context.Context) (any, error) { return nil, errors.New("down") }

	tests := []struct {
		name string
		mock func() (any, error)
	}{
		{"nil mock", nil},
		{"mock error", func() (any, error) { return nil, errors.New("missing") }},
		{"mock panic", func() (any, error) { panic("corrupt") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResource[[]string]("test")

			res := r.Load(context.Background(), Source[[]string]{Remote: failing, Mock: tt.mock, Normalize: names})

			assert.Equal(t, []string{}, res.Data)
			assert.True(t, res.UsedFallback)
		})
	}
}

func TestLoad_LastCallWins(t *testing.T) {
	r := NewResource[[]string]("search")
	releaseA := make(chan struct{})
	startedA := make(chan struct{})

	var wg sync.WaitGroup
	var resA Result[[]string]
	wg.Add(1)
	go func() {
		defer wg.Done()
		resA = r.Load(context.Background(), Source[[]string]{
			Remote: func(ctx context.Context) (any, error) {
				close(startedA)
				<-releaseA
				return []string{"a"}, nil
			},
			Normalize: names,
		})
	}()
	<-startedA

	resB := r.Load(context.Background(), Source[[]string]{
		Remote:    func(ctx context.Context) (any, error) { return []string{"b"}, nil },
		Normalize: names,
	})
	close(releaseA)
	wg.Wait()

	assert.Equal(t, []string{"b"}, resB.Data)
	assert.False(t, resB.Superseded)
	assert.True(t, resA.Superseded)
	assert.Nil(t, resA.Data)
	assert.Equal(t, []string{"b"}, r.Snapshot().Data)
	assert.False(t, r.Loading())
}

type appliedState struct {
	mu    sync.Mutex
	value []string
	calls int
}

func (a *appliedState) apply(data []string, _ bool) {
	a.mu.Lock()
	a.value = data
	a.calls++
	a.mu.Unlock()
}

func (a *appliedState) get() ([]string, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value, a.calls
}

func TestLoad_ApplySkipsSupersededLoads(t *testing.T) {
	r := NewResource[[]string]("search")
	state := &appliedState{}
	releaseA := make(chan struct{})
	startedA := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Load(context.Background(), Source[[]string]{
			Remote: func(ctx context.Context) (any, error) {
				close(startedA)
				<-releaseA
				return []string{"a"}, nil
			},
			Normalize: names,
			Apply:     state.apply,
		})
	}()
	<-startedA

	r.Load(context.Background(), Source[[]string]{
		Remote:    func(ctx context.Context) (any, error) { return []string{"b"}, nil },
		Normalize: names,
		Apply:     state.apply,
	})
	close(releaseA)
	<-done

	value, calls := state.get()
	assert.Equal(t, []string{"b"}, value)
	assert.Equal(t, 1, calls)
}

// A newer load that completes while the older one is publishing must still
// be the state that remains.
func TestLoad_ApplyOrderedWithPublishing(t *testing.T) {
	r := NewResource[[]string]("search")
	state := &appliedState{}
	source := func(v string) Source[[]string] {
		return Source[[]string]{
			Remote:    func(ctx context.Context) (any, error) { return []string{v}, nil },
			Normalize: names,
			Apply:     state.apply,
		}
	}

	reloaded := false
	unsubscribe := r.Subscribe(func(s Snapshot[[]string]) {
		if !reloaded && s.Loaded && len(s.Data) == 1 && s.Data[0] == "a" {
			reloaded = true
			r.Load(context.Background(), source("b"))
		}
	})
	defer unsubscribe()

	res := r.Load(context.Background(), source("a"))
	assert.False(t, res.Superseded)

	value, calls := state.get()
	assert.True(t, reloaded)
	assert.Equal(t, []string{"b"}, value)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"b"}, r.Snapshot().Data)
}

func TestLoad_SupersededSkipsMock(t *testing.T) {
	r := NewResource[[]string]("test")
	release := make(chan struct{})
	started := make(chan struct{})
	mockCalled := false

	done := make(chan Result[[]string])
	go func() {
		done <- r.Load(context.Background(), Source[[]string]{
			Remote: func(ctx context.Context) (any, error) {
				close(started)
				<-release
				return nil, errors.New("late failure")
			},
			Mock: func() (any, error) {
				mockCalled = true
				return []string{"mock"}, nil
			},
			Normalize: names,
		})
	}()
	<-started

	r.Load(context.Background(), Source[[]string]{
		Remote:    func(ctx context.Context) (any, error) { return []string{"fresh"}, nil },
		Normalize: names,
	})
	close(release)
	stale := <-done

	assert.True(t, stale.Superseded)
	assert.False(t, mockCalled)
	assert.Equal(t, []string{"fresh"}, r.Snapshot().Data)
}

func TestSubscribe(t *testing.T) {
	r := NewResource[[]string]("test")

	var mu sync.Mutex
	var seen []Snapshot[[]string]
	unsubscribe := r.Subscribe(func(s Snapshot[[]string]) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	r.Load(context.Background(), Source[[]string]{
		Remote:    func(ctx context.Context) (any, error) { return []string{"x"}, nil },
		Normalize: names,
	})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, []string{"x"}, seen[1].Data)
	assert.Greater(t, seen[1].Version, seen[0].Version)

	unsubscribe()
	unsubscribe()
	r.Load(context.Background(), Source[[]string]{
		Remote:    func(ctx context.Context) (any, error) { return []string{"y"}, nil },
		Normalize: names,
	})
	assert.Len(t, seen, 2)
}
