// Package auth tracks who is logged in and guards the HTTP surface.
//
// Session is the client side view: it restores the persisted token on startup,
// delegates login and logout to the request facade and fans out LoginEvent and
// LogoutEvent to observers. A Navigator observer follows the redirect policy:
//
//	nav := auth.NewNavigator(auth.SurfaceApp)
//	session := auth.NewSession(ctx, client, codec, nav, auditService)
//	_, err := session.Login(ctx, "admin@shayfaway.com", "admin")
//	nav.Current() // auth.SurfaceAdmin
//
// For HTTP, Middleware resolves the caller identity from either
// "Authorization: Bearer <token>" or the token kept in the scs cookie session:
//
//	router.Use(sessionManager.LoadAndSave())
//	router.Use(authMiddleware.Handler())
//	admin := router.Group("/api/admin", authMiddleware.RequireRole(entities.UserRoleAdmin))
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c) // "" for anonymous requests
//
// Cookie authenticated mutations are protected by CSRFMiddleware when a session
// secret is configured.
package auth
