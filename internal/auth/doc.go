// Package auth provides session-based authentication for the JSON API.
//
// Users register with email and password; passwords are stored as bcrypt
// hashes and sessions live in SQLite via scs. Login attempts are rate
// limited per IP and email.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
// Wire up in entrypoint:
//
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	service := auth.NewService(userRepo, shelfRepo, cfg.Auth)
//	router.Use(sessions.LoadAndSave())
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
