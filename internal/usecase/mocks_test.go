package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"secondhand/internal/adapter/marketapi"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
)

type MockMarketAPI struct {
	mock.Mock
}

func (m *MockMarketAPI) UserID() string {
	return "1"
}

func (m *MockMarketAPI) ListProducts(ctx context.Context, page, size int) (any, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) SellerProducts(ctx context.Context, sellerID string) (any, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) ListByCategory(ctx context.Context, categoryID int) (any, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) Search(ctx context.Context, keyword string) (any, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) GetProduct(ctx context.Context, id string) (any, error) {
	args := m.Called(ctx, id)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) CreateProduct(ctx context.Context, p marketapi.NewProduct) (any, error) {
	args := m.Called(ctx, p)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) UpdateProduct(ctx context.Context, id string, u marketapi.ProductUpdate) (any, error) {
	args := m.Called(ctx, id, u)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMarketAPI) Like(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockMarketAPI) Unlike(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockMarketAPI) UserLikes(ctx context.Context) (any, error) {
	args := m.Called(ctx)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) ChatRooms(ctx context.Context) (any, error) {
	args := m.Called(ctx)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) CreateChatRoom(ctx context.Context, productID string) (any, error) {
	args := m.Called(ctx, productID)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) RoomMessages(ctx context.Context, roomID string) (any, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0), args.Error(1)
}

func (m *MockMarketAPI) SendMessage(ctx context.Context, roomID, msgType, content string) (any, error) {
	args := m.Called(ctx, roomID, msgType, content)
	return args.Get(0), args.Error(1)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

const testBaseURL = "http://api.test"

func testNormalizer() *normalizer.Normalizer {
	return normalizer.New(testBaseURL, "1")
}

func testCatalog() *mockdata.Catalog {
	c, err := mockdata.Load()
	if err != nil {
		panic(err)
	}
	return c
}
