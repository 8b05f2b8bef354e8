package routes

import (
	"net/http"

	"github.com/khabarhub/khabar/internal/app"
	"github.com/khabarhub/khabar/internal/handler"
	"github.com/khabarhub/khabar/internal/middleware"
	"github.com/khabarhub/khabar/internal/response"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService, app.AuthService)
	post := handler.NewPostHandler(app.PostService, app.Cfg.APIURL)
	comment := handler.NewCommentHandler(app.CommentService)

	// Guards
	rateLimiter := middleware.RateLimitAuth()
	requireAuth := middleware.RequireAuth(app.AuthService)
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireAnyRole(h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireAdmin(h))
	}

	mux := http.NewServeMux()

	// Auth (rate limited)
	mux.HandleFunc("POST /auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("POST /auth/verify-email", rateLimiter(auth.VerifyEmail))
	mux.HandleFunc("POST /auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password/{token}", rateLimiter(auth.ResetPassword))

	// Own account
	mux.HandleFunc("GET /users/me", authed(user.Me))
	mux.HandleFunc("PUT /users/me", authed(user.UpdateMe))
	mux.HandleFunc("PUT /users/me/password", authed(user.ChangePassword))
	mux.HandleFunc("DELETE /users/me", authed(user.DeleteMe))

	// User administration
	mux.HandleFunc("GET /users", admin(user.List))
	mux.HandleFunc("GET /users/{id}", admin(user.ByID))
	mux.HandleFunc("PATCH /users/{id}/role", admin(user.UpdateRole))
	mux.HandleFunc("POST /users/{id}/approve", admin(user.Approve))
	mux.HandleFunc("POST /users/{id}/suspend", admin(user.Suspend))
	mux.HandleFunc("DELETE /users/{id}", admin(user.Delete))

	// Public content
	mux.HandleFunc("GET /posts", post.List)
	mux.HandleFunc("GET /posts/recent", post.Recent)
	mux.HandleFunc("GET /posts/search", post.Search)
	mux.HandleFunc("GET /posts/popular", post.Popular)
	mux.HandleFunc("GET /posts/recommended/{id}", post.Related)
	mux.HandleFunc("GET /posts/category/all", post.Categories)
	mux.HandleFunc("GET /posts/category/{category}", post.TopByCategory)
	mux.HandleFunc("GET /posts/{slug}", post.BySlug)

	// Post administration
	mux.HandleFunc("POST /posts", admin(post.Create))
	mux.HandleFunc("PUT /posts/{id}", admin(post.Update))
	mux.HandleFunc("DELETE /posts/{id}", admin(post.Delete))

	// Comments
	mux.HandleFunc("GET /posts/{slug}/comments", comment.ListByPost)
	mux.HandleFunc("POST /posts/{slug}/comments", authed(comment.Create))
	mux.HandleFunc("DELETE /comments/{id}", authed(comment.Delete))

	// 404 fallback, same envelope as everything else
	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.ClientURL),
		middleware.RequestLogging,
	)
}
