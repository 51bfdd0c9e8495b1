package server

import (
	"context"
	"net/http"

	"drinkdb/internal/handlers"
	applog "drinkdb/internal/log"
)

const staticDir = "web/static"

func newRouter() http.Handler {
	mux := http.NewServeMux()
	ctx := context.Background()
	applog.Debug(ctx, "registering http routes")

	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, h)
		applog.Debug(ctx, "route registered", "pattern", pattern)
	}
	// form posts from anonymous visitors still carry the anti-forgery token
	guarded := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, handlers.RequireCSRF(h))
		applog.Debug(ctx, "route registered", "pattern", pattern, "csrf", true)
	}
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, handlers.RequireAuthentication(handlers.RequireCSRF(h)))
		applog.Debug(ctx, "route registered", "pattern", pattern, "protected", true)
	}

	public("GET /healthz", handlers.Health)
	public("GET /{$}", handlers.Home)

	guarded("GET /login", handlers.Login)
	guarded("POST /login", handlers.Login)
	guarded("GET /signup", handlers.Signup)
	guarded("POST /signup", handlers.Signup)
	guarded("POST /logout", handlers.Logout)

	public("GET /drinks", handlers.DrinkIndex)
	public("GET /drinks/details/{id...}", handlers.DrinkDetails)
	protected("GET /drinks/create", handlers.DrinkCreate)
	protected("POST /drinks/create", handlers.DrinkCreate)
	protected("GET /drinks/edit/{id...}", handlers.DrinkEdit)
	protected("POST /drinks/edit/{id...}", handlers.DrinkEdit)
	protected("GET /drinks/delete/{id...}", handlers.DrinkDelete)
	protected("POST /drinks/delete/{id...}", handlers.DrinkDelete)
	protected("GET /drinks/add-ingredient/{id...}", handlers.AddIngredient)
	protected("POST /drinks/add-ingredient/{id...}", handlers.AddIngredient)

	public("GET /drink-ingredients/details/{id...}", handlers.DrinkIngredientDetails)
	protected("GET /drink-ingredients/edit/{id...}", handlers.DrinkIngredientEdit)

	protected("GET /ingredients", handlers.Ingredients)
	protected("POST /ingredients", handlers.Ingredients)

	public("GET /api/drinks", handlers.APIDrinks)
	public("GET /api/drinks/{id}", handlers.APIDrink)

	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(staticDir))))
	applog.Debug(ctx, "route registered", "pattern", "GET /assets/", "static", true)
	return mux
}
