package router // package router wires HTTP routes to their handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-boarding/internal/handler"
	"github.com/iliyamo/flight-boarding/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.  Currently
// only the health check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes a refresh token in the body, so no JWT middleware here;
	// agents can end a session even after their access token expired.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBoarding registers the manifest endpoints behind JWT and role
// checks.  Both roles may upload and read; the handler itself restricts
// reading another agent's manifests to supervisors.  Extra middleware (the
// response cache) is applied after the auth pair: a cache hit short-circuits
// the chain, so anything that must run on every request has to come first.
func RegisterBoarding(e *echo.Echo, b *handler.BoardingHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("AGENT", "SUPERVISOR"))
	for _, mw := range extra {
		g.Use(mw)
	}
	g.POST("/manifests", b.Upload)
	g.GET("/manifests", b.List)
	g.GET("/manifests/:id/sequence", b.GetSequence)
}
