package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"aruth-api/logger"
	"aruth-api/metrics"
	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewController handles reviews and keeps product ratings in sync with them
type ReviewController struct {
	Reviews  store.Reviews
	Products store.Products
	Orders   store.Orders
	Sequence store.Sequencer
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviews store.Reviews, products store.Products, orders store.Orders, sequence store.Sequencer) *ReviewController {
	return &ReviewController{Reviews: reviews, Products: products, Orders: orders, Sequence: sequence}
}

// ratingSequence names the per product counter ordering rating recomputes.
func ratingSequence(productID primitive.ObjectID) string {
	return "ratings:" + productID.Hex()
}

// ReviewResult is the answer of a review write: the stored review and the
// product rating recomputed from every review of the product.
type ReviewResult struct {
	Review  *models.Review `json:"review,omitempty"`
	Ratings *float64       `json:"ratings"`
}

// recomputeRating rewrites the product rating from all its reviews. The
// revision comes from a store sequence and is taken before reading the
// reviews, so across every API instance a recompute that read an older set
// of reviews can never overwrite a newer one.
func (rc *ReviewController) recomputeRating(ctx context.Context, productID primitive.ObjectID) (*float64, error) {
	revision, err := rc.Sequence.Next(ctx, ratingSequence(productID))
	if err != nil {
		metrics.RatingRecomputes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("rating revision: %w", err)
	}

	ratings, err := rc.Reviews.Ratings(ctx, productID.Hex())
	if err != nil {
		metrics.RatingRecomputes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	avg := utils.AverageRating(ratings)

	written, err := rc.Products.SetRating(ctx, productID, avg, revision)
	if err != nil {
		metrics.RatingRecomputes.WithLabelValues("failed").Inc()
		return nil, err
	}
	if written {
		metrics.RatingRecomputes.WithLabelValues("written").Inc()
	} else {
		metrics.RatingRecomputes.WithLabelValues("stale").Inc()
	}
	return avg, nil
}

// AddReview writes or replaces the caller's review of one of their orders
// and updates the product rating
func (rc *ReviewController) AddReview(w http.ResponseWriter, r *http.Request) {
	orderNum := mux.Vars(r)["orderNum"]

	var review models.Review
	if !decode(w, r, &review, false) {
		return
	}
	if err := review.Validate(); err != nil {
		invalid(w, err)
		return
	}
	productID, _ := primitive.ObjectIDFromHex(review.ProductID)
	email := caller(r)

	ctx, cancel := dbContext(r)
	defer cancel()

	orders, err := rc.Orders.ByOrderNum(ctx, orderNum)
	if err != nil {
		fail(w, r, err, "Order")
		return
	}
	if len(orders) == 0 {
		utils.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	order := orders[0]
	if order.Email != email {
		utils.WriteError(w, http.StatusForbidden, "Forbidden access")
		return
	}
	if order.ProductID != "" && order.ProductID != review.ProductID {
		utils.WriteError(w, http.StatusBadRequest, "productId does not match the order")
		return
	}

	if _, err := rc.Products.ByID(ctx, productID); err != nil {
		fail(w, r, err, "Product")
		return
	}

	// A replaced review may have been about another product, whose rating
	// then has to drop it.
	var movedFrom *primitive.ObjectID
	previous, err := rc.Reviews.ByOrderNum(ctx, orderNum)
	switch {
	case err == nil:
		if id, perr := primitive.ObjectIDFromHex(previous.ProductID); perr == nil && id != productID {
			movedFrom = &id
		}
	case !errors.Is(err, store.ErrNotFound):
		fail(w, r, err, "Review")
		return
	}

	review.ID = primitive.NilObjectID
	review.OrderNum = orderNum
	review.Email = email
	if review.OrderID == "" {
		review.OrderID = order.ID.Hex()
	}
	if err := rc.Reviews.Upsert(ctx, &review); err != nil {
		fail(w, r, err, "Review")
		return
	}
	metrics.ReviewWrites.WithLabelValues("upsert").Inc()

	rating, err := rc.recomputeRating(ctx, productID)
	if err == nil && movedFrom != nil {
		_, err = rc.recomputeRating(ctx, *movedFrom)
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("recompute rating", "order_num", orderNum, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Review saved but the product rating could not be updated")
		return
	}
	utils.WriteJSON(w, http.StatusOK, ReviewResult{Review: &review, Ratings: rating})
}

// GetProductReviews lists the reviews of a product, newest first
func (rc *ReviewController) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	reviews, err := rc.Reviews.ByProduct(ctx, mux.Vars(r)["productId"])
	if err != nil {
		fail(w, r, err, "Reviews")
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}

// GetMyReviews lists the caller's reviews, newest first
func (rc *ReviewController) GetMyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	reviews, err := rc.Reviews.ByEmail(ctx, caller(r))
	if err != nil {
		fail(w, r, err, "Reviews")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(reviews, models.Review.Summary))
}

// GetReviewByOrderNum returns the review of an order
func (rc *ReviewController) GetReviewByOrderNum(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	review, err := rc.Reviews.ByOrderNum(ctx, mux.Vars(r)["orderNum"])
	if err != nil {
		fail(w, r, err, "Review")
		return
	}
	utils.WriteJSON(w, http.StatusOK, review)
}

// DeleteMyReview removes one of the caller's reviews and updates the product rating
func (rc *ReviewController) DeleteMyReview(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	review, err := rc.Reviews.ByID(ctx, id)
	if err != nil {
		fail(w, r, err, "Review")
		return
	}
	if review.Email != caller(r) {
		utils.WriteError(w, http.StatusForbidden, "Forbidden access")
		return
	}

	if err := rc.Reviews.Delete(ctx, id); err != nil {
		fail(w, r, err, "Review")
		return
	}
	metrics.ReviewWrites.WithLabelValues("delete").Inc()

	productID, err := primitive.ObjectIDFromHex(review.ProductID)
	if err != nil {
		utils.WriteJSON(w, http.StatusOK, ReviewResult{})
		return
	}
	rating, err := rc.recomputeRating(ctx, productID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("recompute rating", "product_id", review.ProductID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Review deleted but the product rating could not be updated")
		return
	}
	utils.WriteJSON(w, http.StatusOK, ReviewResult{Ratings: rating})
}
