package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secondhand/internal/domain/entity"
	"secondhand/internal/state/loader"
)

func TestSearch_LastCallWins(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewSearchUseCase(api, testCatalog(), testNormalizer(), NewLikeUseCase(api, &recordingNotifier{}))

	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	api.On("Search", mock.Anything, "a").Run(func(mock.Arguments) {
		close(startedA)
		<-releaseA
	}).Return([]any{map[string]any{"id": "1", "title": "result a"}}, nil)
	api.On("Search", mock.Anything, "b").Return([]any{map[string]any{"id": "2", "title": "result b"}}, nil)

	first := make(chan SearchView)
	go func() { first <- uc.Search(context.Background(), "a") }()
	<-startedA

	second := uc.Search(context.Background(), "b")
	close(releaseA)
	stale := <-first

	assert.True(t, stale.Superseded)
	assert.False(t, second.Superseded)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "result b", second.Items[0].Title)

	view := uc.View()
	assert.Equal(t, "b", view.Keyword)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "result b", view.Items[0].Title)
}

func TestSearch_FallbackMatchesTitle(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewSearchUseCase(api, testCatalog(), testNormalizer(), NewLikeUseCase(api, &recordingNotifier{}))
	api.On("Search", mock.Anything, "가디건").Return(nil, errors.New("offline"))

	view := uc.Search(context.Background(), "  가디건 ")

	assert.True(t, view.UsedFallback)
	require.Len(t, view.Items, 2)
	for _, p := range view.Items {
		assert.Contains(t, p.Title, "가디건")
	}
}

func TestSearch_BlankKeywordIgnored(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewSearchUseCase(api, testCatalog(), testNormalizer(), NewLikeUseCase(api, &recordingNotifier{}))

	view := uc.Search(context.Background(), "   ")

	assert.Empty(t, view.Items)
	assert.Empty(t, view.Recent)
	api.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_RecentKeywords(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewSearchUseCase(api, testCatalog(), testNormalizer(), NewLikeUseCase(api, &recordingNotifier{}))
	api.On("Search", mock.Anything, mock.Anything).Return([]any{}, nil)

	for _, kw := range []string{"a", "b", "c", "a", "d"} {
		uc.Search(context.Background(), kw)
	}

	assert.Equal(t, []string{"d", "a", "c"}, uc.Recent())
}

func TestSearch_SearchStartedWhilePublishingWins(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewSearchUseCase(api, testCatalog(), testNormalizer(), NewLikeUseCase(api, &recordingNotifier{}))
	api.On("Search", mock.Anything, "a").Return([]any{map[string]any{"id": "1", "title": "result a"}}, nil)
	api.On("Search", mock.Anything, "b").Return([]any{map[string]any{"id": "2", "title": "result b"}}, nil)

	searched := false
	unsubscribe := uc.resource.Subscribe(func(s loader.Snapshot[[]entity.Product]) {
		if !searched && s.Loaded && len(s.Data) == 1 && s.Data[0].Title == "result a" {
			searched = true
			uc.Search(context.Background(), "b")
		}
	})
	defer unsubscribe()

	uc.Search(context.Background(), "a")

	require.True(t, searched)
	view := uc.View()
	assert.Equal(t, "b", view.Keyword)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "result b", view.Items[0].Title)
}
