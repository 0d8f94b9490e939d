package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"aruth-api/logger"
	"aruth-api/middleware"
	"aruth-api/store"
	"aruth-api/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dbTimeout bounds the store calls of a single request
const dbTimeout = 10 * time.Second

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Storefront slice sizes
const (
	latestProductsLimit   = 5
	recommendedLimit      = 6
	latestCategoriesLimit = 4
	recentOrdersLimit     = 3
)

func dbContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), dbTimeout)
}

// pathID parses the hex object id of the path variable name, answering 400
// when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	return parseID(w, mux.Vars(r)[name])
}

func parseID(w http.ResponseWriter, hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// decode reads the JSON body into v, answering 400 on malformed input. An
// empty body is accepted when optional is set. Anything but whitespace after
// the JSON value is malformed input.
func decode(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return true
	}
	if err == nil {
		if _, err = dec.Token(); errors.Is(err, io.EOF) {
			return true
		}
	}
	utils.WriteError(w, http.StatusBadRequest, "Invalid input")
	return false
}

// invalid answers 400 with the validation message of err.
func invalid(w http.ResponseWriter, err error) {
	utils.WriteError(w, http.StatusBadRequest, err.Error())
}

// fail maps a store error to a response: 404 for store.ErrNotFound, 500
// otherwise. what names the record for the 404 message and the log.
func fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, what+" not found")
		return
	}
	logger.WithCtx(r.Context()).Error("store failure", "record", what, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// caller returns the authenticated email. Routes using it are behind
// middleware.Authenticate, so it is always present there.
func caller(r *http.Request) string {
	email, _ := middleware.Identity(r.Context())
	return email
}

func project[T, P any](items []T, view func(T) P) []P {
	out := make([]P, len(items))
	for i, item := range items {
		out[i] = view(item)
	}
	return out
}
