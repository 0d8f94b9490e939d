// routes/routes.go
package routes

import (
	"log/slog"
	"net/http"

	"aruth-api/controllers"
	"aruth-api/metrics"
	"aruth-api/middleware"
	"aruth-api/store"
	"aruth-api/utils"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers served by the router
type Controllers struct {
	User     *controllers.UserController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Slider   *controllers.SliderController
	Order    *controllers.OrderController
	Review   *controllers.ReviewController
	Health   *controllers.HealthController
}

// NewControllers wires every controller to the store
func NewControllers(st store.Store, tokens *utils.TokenService, emailService *utils.EmailService) Controllers {
	return Controllers{
		User:     controllers.NewUserController(st.Users, tokens),
		Product:  controllers.NewProductController(st.Products),
		Category: controllers.NewCategoryController(st.Categories),
		Slider:   controllers.NewSliderController(st.Sliders),
		Order:    controllers.NewOrderController(st.Orders, st.Sequence, emailService),
		Review:   controllers.NewReviewController(st.Reviews, st.Products, st.Orders, st.Sequence),
		Health:   controllers.NewHealthController(st.Health),
	}
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, tokens middleware.TokenVerifier, users store.Users) {
	router.Use(metrics.Middleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Public routes
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Aruth server is running"))
	}).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	router.HandleFunc("/ready", c.Health.Ready).Methods("GET")

	router.HandleFunc("/access-token", c.User.AccessToken).Methods("GET")
	router.HandleFunc("/register", c.User.Register).Methods("PUT")
	router.HandleFunc("/is-admin/{email}", c.User.IsAdmin).Methods("GET")

	router.HandleFunc("/popular-products", c.Product.GetPopularProducts).Methods("GET")
	router.HandleFunc("/just-for-you", c.Product.GetJustForYou).Methods("GET")
	router.HandleFunc("/all-products", c.Product.GetProducts).Methods("GET")
	router.HandleFunc("/product-details/{id}", c.Product.GetProductByID).Methods("GET")
	router.HandleFunc("/categories-product/{name}", c.Product.GetProductsByCategory).Methods("GET")
	router.HandleFunc("/recommended-products/{category}", c.Product.GetRecommendedProducts).Methods("GET")
	router.HandleFunc("/product-reviews/{productId}", c.Review.GetProductReviews).Methods("GET")

	router.HandleFunc("/categories", c.Category.GetCategories).Methods("GET")
	router.HandleFunc("/latest-category", c.Category.GetLatestCategories).Methods("GET")
	router.HandleFunc("/sliders", c.Slider.GetSliders).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.Authenticate(tokens))
	protected.HandleFunc("/place-order", c.Order.PlaceOrder).Methods("POST")
	protected.HandleFunc("/my-orders", c.Order.GetMyOrders).Methods("GET")
	protected.HandleFunc("/my-order-details/{id}", c.Order.GetMyOrderDetails).Methods("GET")
	protected.HandleFunc("/my-recent-orders", c.Order.GetMyRecentOrders).Methods("GET")
	protected.HandleFunc("/add-review/{orderNum}", c.Review.AddReview).Methods("PUT")
	protected.HandleFunc("/my-all-review", c.Review.GetMyReviews).Methods("GET")
	protected.HandleFunc("/get-review-by-order-number/{orderNum}", c.Review.GetReviewByOrderNum).Methods("GET")
	protected.HandleFunc("/delete-my-review", c.Review.DeleteMyReview).Methods("DELETE")
	protected.HandleFunc("/update-address", c.User.UpdateAddress).Methods("PUT")
	protected.HandleFunc("/my-info", c.User.GetMyInfo).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/").Subrouter()
	admin.Use(middleware.Authenticate(tokens))
	admin.Use(middleware.RequireAdmin(users))
	admin.HandleFunc("/insert-product", c.Product.CreateProduct).Methods("POST")
	admin.HandleFunc("/products", c.Product.GetProductRows).Methods("GET")
	admin.HandleFunc("/product-explore/{id}", c.Product.GetProductByID).Methods("GET")
	admin.HandleFunc("/update-product-info/{id}", c.Product.UpdateProduct).Methods("PATCH")

	admin.HandleFunc("/orders", c.Order.GetOrders).Methods("GET")
	admin.HandleFunc("/order-details/{id}", c.Order.GetOrderDetails).Methods("GET")
	admin.HandleFunc("/update-order-info/{id}", c.Order.UpdateOrderStatus).Methods("PATCH")
	admin.HandleFunc("/order-delete/{id}", c.Order.DeleteOrder).Methods("DELETE")
	admin.HandleFunc("/search-order/{orderNum}", c.Order.SearchOrder).Methods("GET")

	admin.HandleFunc("/create-category", c.Category.CreateCategory).Methods("POST")
	admin.HandleFunc("/category-title", c.Category.GetCategoryTitles).Methods("GET")
	admin.HandleFunc("/delete-category/{id}", c.Category.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/insert-slider", c.Slider.CreateSlider).Methods("POST")
	admin.HandleFunc("/delete-slider/{id}", c.Slider.DeleteSlider).Methods("DELETE")

	admin.HandleFunc("/users", c.User.GetUsers).Methods("GET")
	admin.HandleFunc("/make-admin", c.User.MakeAdmin).Methods("PATCH")
	admin.HandleFunc("/all-admins", c.User.GetAdmins).Methods("GET")
}

// NewHandler builds the full HTTP handler: the router behind request ids,
// access logging, panic recovery and CORS.
func NewHandler(st store.Store, tokens *utils.TokenService, emailService *utils.EmailService, log *slog.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, NewControllers(st, tokens, emailService), tokens, st.Users)

	var h http.Handler = router
	h = middleware.CORS(allowedOrigins)(h)
	h = middleware.Recovery(h)
	h = middleware.Logger(log)(h)
	h = middleware.RequestID(h)
	return h
}
