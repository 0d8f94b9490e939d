package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aruth-api/logger"
	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/store/memstore"
	"aruth-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	h      http.Handler
	st     store.Store
	tokens *utils.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memstore.New().Store()
	tokens := utils.NewTokenService("test-secret", time.Hour)
	log := logger.New(io.Discard, false)
	emails := utils.NewEmailService(utils.LogMailer{Logger: log})
	return &testServer{
		t:      t,
		h:      NewHandler(st, tokens, emails, log, []string{"*"}),
		st:     st,
		tokens: tokens,
	}
}

// do sends the request as email when it is set, with its token and ?email=.
func (s *testServer) do(method, path, email string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if raw, ok := body.(json.RawMessage); ok {
		rd = bytes.NewReader(raw)
	} else if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	if email != "" {
		sep := "?"
		if bytes.ContainsRune([]byte(path), '?') {
			sep = "&"
		}
		path += sep + "email=" + email
	}
	req := httptest.NewRequest(method, path, rd)
	if email != "" {
		token, err := s.tokens.Issue(email)
		require.NoError(s.t, err)
		req.Header.Set("auth", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) admin(email string) {
	s.t.Helper()
	ctx := context.Background()
	require.NoError(s.t, s.st.Users.Register(ctx, email, models.Profile{}))
	require.NoError(s.t, s.st.Users.SetRole(ctx, email, models.RoleAdmin))
}

func (s *testServer) product(name string) models.Product {
	s.t.Helper()
	p := models.Product{Name: name, Price: 20, Type: models.ProductPopular, Categories: []string{"men"}}
	require.NoError(s.t, s.st.Products.Insert(context.Background(), &p))
	return p
}

func (s *testServer) placeOrder(email string, p models.Product) models.Order {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/place-order", email, map[string]any{
		"productId":       p.ID.Hex(),
		"productName":     p.Name,
		"productImg":      p.Image,
		"productQuantity": 1,
		"total":           p.Price,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Order](s.t, rec)
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aruth_http_requests_total")
}

func TestReady(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	down := errors.New("connection refused")
	s.st.Health = store.Pingers{s.st.Health, store.PingFunc(func(context.Context) error { return down })}
	s.h = NewHandler(s.st, s.tokens, utils.NewEmailService(utils.LogMailer{Logger: logger.L}), logger.New(io.Discard, false), nil)
	rec = s.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Store unavailable"}`, rec.Body.String())
}

func TestTrailingBodyRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/register", "ada@example.com", json.RawMessage(`{"name":"Ada"}garbage`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid input"}`, rec.Body.String())
	_, err := s.st.Users.ByEmail(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = s.do(http.MethodPut, "/register", "ada@example.com", json.RawMessage("{\"name\":\"Ada\"}\n"))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAccessToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/access-token", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/access-token?email=ada@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	email, err := s.tokens.Verify(body["token"])
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.admin("root@example.com")

	// No token at all.
	rec := s.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A customer token.
	require.NoError(t, s.st.Users.Register(context.Background(), "ada@example.com", models.Profile{}))
	rec = s.do(http.MethodGet, "/users", "ada@example.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An admin token presented for another email.
	token, err := s.tokens.Issue("root@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/users?email=ada@example.com", nil)
	req.Header.Set("auth", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/users", "root@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.User](t, rec), 2)
}

func TestMakeAdmin(t *testing.T) {
	s := newTestServer(t)
	s.admin("root@example.com")

	rec := s.do(http.MethodPut, "/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/register?email=ada@example.com", "", map[string]string{"name": "Ada", "role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleCustomer, decodeBody[models.User](t, rec).Role)

	rec = s.do(http.MethodGet, "/is-admin/ada@example.com", "", nil)
	assert.JSONEq(t, `{"isAdmin":false}`, rec.Body.String())

	rec = s.do(http.MethodPatch, "/make-admin", "root@example.com", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPatch, "/make-admin", "root@example.com", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/is-admin/ada@example.com", "", nil)
	assert.JSONEq(t, `{"isAdmin":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/all-admins", "ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.User](t, rec), 2)
}

func TestOrders(t *testing.T) {
	s := newTestServer(t)
	s.admin("root@example.com")
	p := s.product("Linen shirt")

	var placed []models.Order
	for i := 0; i < 6; i++ {
		placed = append(placed, s.placeOrder("ada@example.com", p))
	}
	other := s.placeOrder("bob@example.com", p)

	nums := map[string]bool{}
	for _, o := range placed {
		assert.Regexp(t, `^AR[0-9a-f]{4}C\d+$`, o.OrderNum)
		assert.Equal(t, models.StatusPending, o.Status)
		assert.Equal(t, "ada@example.com", o.Email)
		nums[o.OrderNum] = true
	}
	assert.Len(t, nums, 6)

	rec := s.do(http.MethodGet, "/my-recent-orders", "ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decodeBody[[]models.RecentOrder](t, rec)
	require.Len(t, recent, 3)
	assert.Equal(t, placed[5].OrderNum, recent[0].OrderNum)
	assert.Equal(t, placed[4].OrderNum, recent[1].OrderNum)
	assert.Equal(t, placed[3].OrderNum, recent[2].OrderNum)

	rec = s.do(http.MethodGet, "/my-orders", "ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.OrderSummary](t, rec), 6)

	rec = s.do(http.MethodGet, "/my-order-details/"+other.ID.Hex(), "ada@example.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodGet, "/my-order-details/bad-id", "ada@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/update-order-info/"+other.ID.Hex(), "root@example.com", map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPatch, "/update-order-info/"+other.ID.Hex(), "root@example.com", map[string]string{"status": models.StatusShipped})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusShipped, decodeBody[models.Order](t, rec).Status)

	rec = s.do(http.MethodGet, "/search-order/"+other.OrderNum, "root@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.OrderRow](t, rec), 1)

	rec = s.do(http.MethodDelete, "/order-delete/"+other.ID.Hex(), "root@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/order-details/"+other.ID.Hex(), "root@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type reviewResult struct {
	Review  models.Review `json:"review"`
	Ratings *float64      `json:"ratings"`
}

func TestReviewsKeepProductRating(t *testing.T) {
	s := newTestServer(t)
	p := s.product("Linen shirt")
	adaOrder := s.placeOrder("ada@example.com", p)
	bobOrder := s.placeOrder("bob@example.com", p)

	review := func(email string, o models.Order, rating float64) reviewResult {
		t.Helper()
		rec := s.do(http.MethodPut, "/add-review/"+o.OrderNum, email, map[string]any{
			"productId": p.ID.Hex(),
			"ratings":   rating,
			"text":      "fits well",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeBody[reviewResult](t, rec)
	}
	rating := func() *float64 {
		got, err := s.st.Products.ByID(context.Background(), p.ID)
		require.NoError(t, err)
		return got.Ratings
	}

	first := review("ada@example.com", adaOrder, 4)
	require.NotNil(t, first.Ratings)
	assert.Equal(t, 4.0, *first.Ratings)

	res := review("bob@example.com", bobOrder, 5)
	assert.Equal(t, 4.5, *res.Ratings)

	// Re-reviewing the same order replaces the review.
	res = review("ada@example.com", adaOrder, 3)
	assert.Equal(t, first.Review.ID, res.Review.ID)
	assert.Equal(t, 4.0, *res.Ratings)
	assert.Equal(t, 4.0, *rating())

	rec := s.do(http.MethodGet, "/product-reviews/"+p.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Review](t, rec), 2)

	rec = s.do(http.MethodGet, "/get-review-by-order-number/"+adaOrder.OrderNum, "ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decodeBody[models.Review](t, rec).Ratings)

	rec = s.do(http.MethodGet, "/my-all-review", "ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.ReviewSummary](t, rec), 1)

	// Only the author may delete a review.
	rec = s.do(http.MethodDelete, "/delete-my-review?id="+first.Review.ID.Hex(), "bob@example.com", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/delete-my-review?id="+first.Review.ID.Hex(), "ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5.0, *decodeBody[reviewResult](t, rec).Ratings)
	assert.Equal(t, 5.0, *rating())

	bobReview, err := s.st.Reviews.ByOrderNum(context.Background(), bobOrder.OrderNum)
	require.NoError(t, err)
	rec = s.do(http.MethodDelete, "/delete-my-review?id="+bobReview.ID.Hex(), "bob@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[reviewResult](t, rec).Ratings)
	assert.Nil(t, rating())
}

func TestReviewMovedToAnotherProduct(t *testing.T) {
	s := newTestServer(t)
	shirt := s.product("Linen shirt")
	scarf := s.product("Silk scarf")

	// An order placed without a product id may be reviewed for any product.
	rec := s.do(http.MethodPost, "/place-order", "ada@example.com", map[string]any{
		"productName":     "Gift box",
		"productQuantity": 1,
		"total":           40,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[models.Order](t, rec)

	review := func(p models.Product, rating float64) reviewResult {
		t.Helper()
		rec := s.do(http.MethodPut, "/add-review/"+order.OrderNum, "ada@example.com", map[string]any{
			"productId": p.ID.Hex(),
			"ratings":   rating,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeBody[reviewResult](t, rec)
	}
	rating := func(p models.Product) *float64 {
		got, err := s.st.Products.ByID(context.Background(), p.ID)
		require.NoError(t, err)
		return got.Ratings
	}

	first := review(shirt, 4)
	require.NotNil(t, rating(shirt))
	assert.Equal(t, 4.0, *rating(shirt))

	moved := review(scarf, 5)
	assert.Equal(t, first.Review.ID, moved.Review.ID)
	require.NotNil(t, moved.Ratings)
	assert.Equal(t, 5.0, *moved.Ratings)
	assert.Equal(t, 5.0, *rating(scarf))
	assert.Nil(t, rating(shirt))

	rec = s.do(http.MethodGet, "/product-reviews/"+shirt.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]models.Review](t, rec))
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)
	s.admin("root@example.com")

	rec := s.do(http.MethodPost, "/insert-product", "root@example.com", map[string]any{
		"name": "Linen shirt", "price": 20, "type": models.ProductPopular, "categories": []string{"men"}, "ratings": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeBody[models.Product](t, rec)
	assert.Nil(t, p.Ratings)

	rec = s.do(http.MethodPost, "/insert-product", "root@example.com", map[string]any{"price": 20})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/popular-products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.ProductCard](t, rec), 1)

	rec = s.do(http.MethodGet, "/just-for-you", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodPatch, "/update-product-info/"+p.ID.Hex(), "root@example.com", map[string]any{"price": 15})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 15.0, decodeBody[models.Product](t, rec).Price)

	rec = s.do(http.MethodGet, "/categories-product/men", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Product](t, rec), 1)

	rec = s.do(http.MethodGet, "/product-details/"+p.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, text := range []string{"Men", "Women", "Kids", "Shoes", "Bags"} {
		rec = s.do(http.MethodPost, "/create-category", "root@example.com", map[string]string{"text": text, "type": models.CategoryHome})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodGet, "/latest-category", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decodeBody[[]models.Category](t, rec)
	require.Len(t, latest, 4)
	assert.Equal(t, "Bags", latest[0].Text)

	rec = s.do(http.MethodPost, "/insert-slider", "root@example.com", map[string]string{"img": "hero.png", "title": "Summer"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	slider := decodeBody[models.Slider](t, rec)

	rec = s.do(http.MethodDelete, "/delete-slider/"+slider.ID.Hex(), "root@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/sliders", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
