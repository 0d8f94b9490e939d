package controllers

import (
	"net/http"

	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/utils"
)

// CategoryController handles category-related requests
type CategoryController struct {
	Categories store.Categories
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categories store.Categories) *CategoryController {
	return &CategoryController{Categories: categories}
}

// GetCategories lists every category
func (cc *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	categories, err := cc.Categories.All(ctx)
	if err != nil {
		fail(w, r, err, "Categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

// GetLatestCategories lists the newest home page categories
func (cc *CategoryController) GetLatestCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	categories, err := cc.Categories.LatestByType(ctx, models.CategoryHome, latestCategoriesLimit)
	if err != nil {
		fail(w, r, err, "Categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

// GetCategoryTitles lists the category titles (Admin only)
func (cc *CategoryController) GetCategoryTitles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	categories, err := cc.Categories.All(ctx)
	if err != nil {
		fail(w, r, err, "Categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(categories, models.Category.Title))
}

// CreateCategory adds a category (Admin only)
func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if !decode(w, r, &category, false) {
		return
	}
	if err := category.Validate(); err != nil {
		invalid(w, err)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := cc.Categories.Insert(ctx, &category); err != nil {
		fail(w, r, err, "Category")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a category (Admin only)
func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := cc.Categories.Delete(ctx, id); err != nil {
		fail(w, r, err, "Category")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}
