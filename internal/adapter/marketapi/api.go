// Package marketapi names the REST endpoints of the market backend on top
// of the resource client. Responses are returned raw; callers normalize them.
package marketapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"secondhand/internal/infrastructure/restclient"
)

// Requester is the subset of the resource client the API needs.
type Requester interface {
	Request(ctx context.Context, path string, opts restclient.RequestOptions) (any, error)
	Upload(ctx context.Context, path string, form restclient.MultipartForm) (any, error)
}

type API struct {
	client Requester
	userID string
}

func New(client Requester, userID string) *API {
	return &API{client: client, userID: userID}
}

func (a *API) UserID() string {
	return a.userID
}

func (a *API) get(ctx context.Context, path string, query url.Values) (any, error) {
	return a.client.Request(ctx, path, restclient.RequestOptions{Query: query})
}

func (a *API) send(ctx context.Context, method, path string, body any) (any, error) {
	return a.client.Request(ctx, path, restclient.RequestOptions{Method: method, Body: body})
}

func seg(s string) string {
	return url.PathEscape(s)
}

// ListProducts pages through all products; size 0 asks for everything.
func (a *API) ListProducts(ctx context.Context, page, size int) (any, error) {
	var q url.Values
	if size > 0 {
		q = url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
	}
	return a.get(ctx, "/api/products", q)
}

func (a *API) SellerProducts(ctx context.Context, sellerID string) (any, error) {
	return a.get(ctx, "/api/products", url.Values{"sellerId": {sellerID}})
}

func (a *API) ListByCategory(ctx context.Context, categoryID int) (any, error) {
	return a.get(ctx, "/api/products/category/"+strconv.Itoa(categoryID), nil)
}

func (a *API) Search(ctx context.Context, keyword string) (any, error) {
	return a.get(ctx, "/api/products/search", url.Values{"keyword": {keyword}})
}

func (a *API) GetProduct(ctx context.Context, id string) (any, error) {
	return a.get(ctx, "/api/products/"+seg(id), nil)
}

type NewProduct struct {
	Title       string
	Price       int64
	Description string
	CategoryID  int
	Images      []restclient.File
}

func (a *API) CreateProduct(ctx context.Context, p NewProduct) (any, error) {
	return a.client.Upload(ctx, "/api/products/with-upload", restclient.MultipartForm{
		Fields: map[string]string{
			"title":       p.Title,
			"price":       strconv.FormatInt(p.Price, 10),
			"description": p.Description,
			"categoryId":  strconv.Itoa(p.CategoryID),
			"sellerId":    a.userID,
		},
		Files: map[string][]restclient.File{"images": p.Images},
	})
}

type ProductUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

func (a *API) UpdateProduct(ctx context.Context, id string, u ProductUpdate) (any, error) {
	return a.send(ctx, http.MethodPut, "/api/products/"+seg(id), u)
}

func (a *API) DeleteProduct(ctx context.Context, id string) error {
	_, err := a.send(ctx, http.MethodDelete, "/api/products/"+seg(id), nil)
	return err
}

type likeRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

func (a *API) Like(ctx context.Context, productID string) error {
	_, err := a.send(ctx, http.MethodPost, "/api/likes", likeRequest{UserID: a.userID, ProductID: productID})
	return err
}

func (a *API) Unlike(ctx context.Context, productID string) error {
	_, err := a.send(ctx, http.MethodDelete, "/api/likes", likeRequest{UserID: a.userID, ProductID: productID})
	return err
}

func (a *API) UserLikes(ctx context.Context) (any, error) {
	return a.get(ctx, "/api/likes/user/"+seg(a.userID), nil)
}

func (a *API) ChatRooms(ctx context.Context) (any, error) {
	return a.get(ctx, "/api/chatrooms/user/"+seg(a.userID), nil)
}

type createRoomRequest struct {
	ProductID string `json:"productId"`
	BuyerID   string `json:"buyerId"`
}

func (a *API) CreateChatRoom(ctx context.Context, productID string) (any, error) {
	return a.send(ctx, http.MethodPost, "/api/chatrooms", createRoomRequest{ProductID: productID, BuyerID: a.userID})
}

func (a *API) RoomMessages(ctx context.Context, roomID string) (any, error) {
	return a.get(ctx, "/api/chatrooms/"+seg(roomID)+"/messages", nil)
}

type OutgoingMessage struct {
	SenderID string `json:"senderId"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

func (a *API) SendMessage(ctx context.Context, roomID, msgType, content string) (any, error) {
	return a.send(ctx, http.MethodPost, "/api/chatrooms/"+seg(roomID)+"/messages", OutgoingMessage{
		SenderID: a.userID,
		Type:     msgType,
		Content:  content,
	})
}
