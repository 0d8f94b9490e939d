package controllers

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aruth-api/middleware"
	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/store/memstore"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReviewed(t *testing.T) (store.Store, *ReviewController, *models.Product) {
	t.Helper()
	st := memstore.New().Store()
	ctx := context.Background()

	p := models.Product{Name: "Linen shirt", Price: 20}
	require.NoError(t, st.Products.Insert(ctx, &p))
	for i, rating := range []float64{4, 5, 3} {
		r := models.Review{OrderNum: string(rune('A' + i)), ProductID: p.ID.Hex(), Ratings: rating}
		require.NoError(t, st.Reviews.Upsert(ctx, &r))
	}
	return st, NewReviewController(st.Reviews, st.Products, st.Orders, st.Sequence), &p
}

func TestRecomputeRating(t *testing.T) {
	st, rc, p := seedReviewed(t)
	ctx := context.Background()

	avg, err := rc.recomputeRating(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 4.0, *avg)

	got, err := st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.Equal(t, 4.0, *got.Ratings)
}

func TestRecomputeRating_NewerWriteWins(t *testing.T) {
	st, rc, p := seedReviewed(t)
	ctx := context.Background()

	newer := 2.0
	written, err := st.Products.SetRating(ctx, p.ID, &newer, math.MaxInt64)
	require.NoError(t, err)
	require.True(t, written)

	_, err = rc.recomputeRating(ctx, p.ID)
	require.NoError(t, err)

	got, err := st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, *got.Ratings)
}

func TestAddReview_RequiresOwnOrder(t *testing.T) {
	st, rc, p := seedReviewed(t)
	ctx := context.Background()

	order := models.Order{OrderNum: "AR00aaC1", Email: "bob@example.com", ProductName: "Linen shirt", ProductQuantity: 1}
	require.NoError(t, st.Orders.Insert(ctx, &order))

	serve := func(orderNum, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/add-review/"+orderNum, strings.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"orderNum": orderNum})
		req = req.WithContext(middleware.WithIdentity(req.Context(), "ada@example.com"))
		rec := httptest.NewRecorder()
		rc.AddReview(rec, req)
		return rec
	}

	body := `{"productId":"` + p.ID.Hex() + `","ratings":5,"text":"great"}`
	assert.Equal(t, http.StatusForbidden, serve("AR00aaC1", body).Code)
	assert.Equal(t, http.StatusNotFound, serve("AR00bbC9", body).Code)
	assert.Equal(t, http.StatusBadRequest, serve("AR00aaC1", `{"productId":"x","ratings":5}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve("AR00aaC1", `{"productId":"`+p.ID.Hex()+`","ratings":9}`).Code)
}

func TestRecomputeRating_RevisionFromStoreSequence(t *testing.T) {
	st, rc, p := seedReviewed(t)
	other := NewReviewController(st.Reviews, st.Products, st.Orders, st.Sequence)
	ctx := context.Background()

	_, err := rc.recomputeRating(ctx, p.ID)
	require.NoError(t, err)
	got, err := st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.RatingsRevision)

	// A second instance sharing the store continues the same sequence.
	_, err = other.recomputeRating(ctx, p.ID)
	require.NoError(t, err)
	got, err = st.Products.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.RatingsRevision)

	next, err := st.Sequence.Next(ctx, ratingSequence(p.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)
}
