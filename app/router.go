// Package app wires the endpoints, middleware and dependencies together
package app

import (
	"fmt"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskbox/task-api/app/auth"
	"taskbox/task-api/app/root"
	"taskbox/task-api/app/task"
	"taskbox/task-api/db"
	"taskbox/task-api/internal"
	"taskbox/task-api/internal/service"
	"taskbox/task-api/pkg/middleware"
	"taskbox/task-api/pkg/security"
	"taskbox/task-api/storage"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// NewRouter builds the production router with all its dependencies
func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{
		Argon: security.New(),
	}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = conn

	store, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar storage, %w", err)
	}
	d.Storage = store

	makeLogger()

	// Used tokens die immediately, expired ones within a day
	service.TokenCleanup(time.Hour*24, conn)

	return Routes(d), nil
}

// Routes mounts every endpoint on a fresh engine. Takes the deps as an
// argument so tests can bring their own database and storage.
func Routes(d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	bearer := middleware.NewAuthMiddleware(d.DB)
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})
	jsonBody := middleware.BodySizeLimiter(1 << 20)

	if viper.GetString("storage.type") == "local" {
		router.Static("/uploads", viper.GetString("storage.local_dir"))
	}

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 			-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	a := m.Group("/auth")
	{
		// POST /api/auth/signup 		-> Registers a new user and returns a token
		a.POST("/signup", jsonBody, func(c *gin.Context) { auth.Signup(c, d) })

		// POST /api/auth/login 		-> Logs in a user and returns a token
		a.POST("/login", jsonBody, func(c *gin.Context) { auth.Login(c, d) })

		// GET /api/auth/user			-> Returns the account behind the token
		a.GET("/user", bearer, func(c *gin.Context) { auth.CurrentUser(c, d) })

		// POST /api/auth/forgot-password	-> Mails a password reset link
		a.POST("/forgot-password", jsonBody, func(c *gin.Context) { auth.ForgotPassword(c, d) })

		// POST /api/auth/reset-password/:token	-> Consumes a reset token and sets a new password
		a.POST("/reset-password/:token", jsonBody, func(c *gin.Context) { auth.ResetPassword(c, d) })

		// POST /api/auth/avatar		-> Uploads a profile picture
		a.POST("/avatar", bearer, middleware.BodySizeLimiter(viper.GetInt64("avatar.max_size")+(1<<20)),
			func(c *gin.Context) { auth.UploadAvatar(c, d) })
	}

	t := m.Group("/tasks", bearer)
	{
		// GET /api/tasks			-> Lists tasks owned by or shared with the caller
		t.GET("", func(c *gin.Context) { task.List(c, d) })

		// GET /api/tasks/shared		-> Lists only the tasks shared with the caller
		t.GET("/shared", func(c *gin.Context) { task.ListShared(c, d) })

		// POST /api/tasks			-> Creates a new task
		t.POST("", jsonBody, func(c *gin.Context) { task.Create(c, d) })

		// POST /api/tasks/share		-> Grants another user read access by email
		t.POST("/share", jsonBody, func(c *gin.Context) { task.Share(c, d) })

		// POST /api/tasks/unshare		-> Revokes a recipient's read access
		t.POST("/unshare", jsonBody, func(c *gin.Context) { task.Unshare(c, d) })

		// GET /api/tasks/:id			-> Returns a single task
		t.GET("/:id", func(c *gin.Context) { task.Fetch(c, d) })

		// PUT /api/tasks/:id			-> Applies a partial update, owner only
		t.PUT("/:id", jsonBody, func(c *gin.Context) { task.Update(c, d) })

		// DELETE /api/tasks/:id		-> Deletes a task, owner only
		t.DELETE("/:id", func(c *gin.Context) { task.Delete(c, d) })
	}

	return router
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	var lvl zapcore.Level
	if err := lvl.Set(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
