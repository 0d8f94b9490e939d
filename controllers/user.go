package controllers

import (
	"errors"
	"net/http"
	"strings"

	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/utils"

	"github.com/gorilla/mux"
)

// UserController handles user-related requests
type UserController struct {
	Users  store.Users
	Tokens *utils.TokenService
}

// NewUserController creates a new UserController
func NewUserController(users store.Users, tokens *utils.TokenService) *UserController {
	return &UserController{Users: users, Tokens: tokens}
}

func queryEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		utils.WriteError(w, http.StatusBadRequest, "email is required")
		return "", false
	}
	return email, true
}

// AccessToken issues the access token of an email
func (uc *UserController) AccessToken(w http.ResponseWriter, r *http.Request) {
	email, ok := queryEmail(w, r)
	if !ok {
		return
	}

	token, err := uc.Tokens.Issue(email)
	if err != nil {
		fail(w, r, err, "Token")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Register creates the user of ?email= or updates its profile
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	email, ok := queryEmail(w, r)
	if !ok {
		return
	}

	var profile models.Profile
	if !decode(w, r, &profile, true) {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := uc.Users.Register(ctx, email, profile); err != nil {
		fail(w, r, err, "User")
		return
	}
	uc.writeUser(w, r, email)
}

// UpdateAddress stores the caller's delivery address and mobile number
func (uc *UserController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var contact models.Contact
	if !decode(w, r, &contact, false) {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := uc.Users.UpdateContact(ctx, caller(r), contact); err != nil {
		fail(w, r, err, "User")
		return
	}
	uc.writeUser(w, r, caller(r))
}

// GetMyInfo returns the caller's user record
func (uc *UserController) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	uc.writeUser(w, r, caller(r))
}

func (uc *UserController) writeUser(w http.ResponseWriter, r *http.Request, email string) {
	ctx, cancel := dbContext(r)
	defer cancel()

	user, err := uc.Users.ByEmail(ctx, email)
	if err != nil {
		fail(w, r, err, "User")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// IsAdmin tells whether an email holds the admin role
func (uc *UserController) IsAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	user, err := uc.Users.ByEmail(ctx, mux.Vars(r)["email"])
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(w, r, err, "User")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": user.IsAdmin()})
}

// GetUsers lists every user (Admin only)
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	users, err := uc.Users.All(ctx)
	if err != nil {
		fail(w, r, err, "Users")
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// GetAdmins lists the admins (Admin only)
func (uc *UserController) GetAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	users, err := uc.Users.ByRole(ctx, models.RoleAdmin)
	if err != nil {
		fail(w, r, err, "Users")
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// MakeAdmin grants the admin role to an existing user (Admin only)
func (uc *UserController) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var target struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &target, false) {
		return
	}
	target.Email = strings.TrimSpace(target.Email)
	if target.Email == "" {
		utils.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := uc.Users.SetRole(ctx, target.Email, models.RoleAdmin); err != nil {
		fail(w, r, err, "User")
		return
	}
	uc.writeUser(w, r, target.Email)
}
