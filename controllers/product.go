package controllers

import (
	"net/http"

	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/utils"

	"github.com/gorilla/mux"
)

// ProductController handles product-related requests
type ProductController struct {
	Products store.Products
}

// NewProductController creates a new ProductController
func NewProductController(products store.Products) *ProductController {
	return &ProductController{Products: products}
}

func (pc *ProductController) latestCards(w http.ResponseWriter, r *http.Request, typ string) {
	ctx, cancel := dbContext(r)
	defer cancel()

	products, err := pc.Products.LatestByType(ctx, typ, latestProductsLimit)
	if err != nil {
		fail(w, r, err, "Products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(products, models.Product.Card))
}

// GetPopularProducts returns the latest popular products, newest first
func (pc *ProductController) GetPopularProducts(w http.ResponseWriter, r *http.Request) {
	pc.latestCards(w, r, models.ProductPopular)
}

// GetJustForYou returns the latest just-for-you products, newest first
func (pc *ProductController) GetJustForYou(w http.ResponseWriter, r *http.Request) {
	pc.latestCards(w, r, models.ProductJustForYou)
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	products, err := pc.Products.All(ctx)
	if err != nil {
		fail(w, r, err, "Products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GetProductRows retrieves all products for the admin table
func (pc *ProductController) GetProductRows(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	products, err := pc.Products.All(ctx)
	if err != nil {
		fail(w, r, err, "Products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(products, models.Product.Row))
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	product, err := pc.Products.ByID(ctx, id)
	if err != nil {
		fail(w, r, err, "Product")
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// GetProductsByCategory lists the products of a category
func (pc *ProductController) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	pc.byCategory(w, r, mux.Vars(r)["name"], 0)
}

// GetRecommendedProducts lists a few products sharing a category
func (pc *ProductController) GetRecommendedProducts(w http.ResponseWriter, r *http.Request) {
	pc.byCategory(w, r, mux.Vars(r)["category"], recommendedLimit)
}

func (pc *ProductController) byCategory(w http.ResponseWriter, r *http.Request, name string, limit int64) {
	ctx, cancel := dbContext(r)
	defer cancel()

	products, err := pc.Products.ByCategory(ctx, name, limit)
	if err != nil {
		fail(w, r, err, "Products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decode(w, r, &product, false) {
		return
	}
	if err := product.Validate(); err != nil {
		invalid(w, err)
		return
	}
	product.Ratings = nil

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := pc.Products.Insert(ctx, &product); err != nil {
		fail(w, r, err, "Product")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProduct merges the provided fields into a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch models.ProductPatch
	if !decode(w, r, &patch, false) {
		return
	}
	if err := patch.Validate(); err != nil {
		invalid(w, err)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := pc.Products.Update(ctx, id, patch); err != nil {
		fail(w, r, err, "Product")
		return
	}
	product, err := pc.Products.ByID(ctx, id)
	if err != nil {
		fail(w, r, err, "Product")
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}
