// Package auth is the local credential store plus its HTTP surface.
//
// Accounts live in users.json under the data root. Passwords are never
// stored: registration derives a PBKDF2-SHA256 hash over a fresh random
// 16-byte salt, and verification recomputes the hash and compares it in
// constant time. Login failures are a bare boolean; an unknown email and
// a wrong password are deliberately indistinguishable.
//
// # Usage
//
// Initialize in entrypoint:
//
//	authService, err := auth.NewService(cfg.Storage.DataRoot)
//	sessionManager := auth.NewSessionManager(cfg.Auth)
//	router.Use(sessionManager.SessionLoadSave())
//	router.Use(auth.NewMiddleware(sessionManager).Handler())
//
// Extract the logged-in user in handlers:
//
//	email := auth.GetUserEmail(c)
package auth
