package http

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/adapters/signal"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/metrics"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	h *Handlers,
	ws *signal.Controller,
	promReg *prometheus.Registry,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("HuddleSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.Static("/audio", cfg.AudioDir)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/healthz", h.Healthz)
	if promReg != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(promReg)))
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.POST("/create-meeting", h.CreateMeeting)
	api.GET("/session/:name", h.GetSession)
	api.GET("/users/:name", h.ListUsers)
	api.GET("/chat_history/:name", h.GetChatHistory)
	api.GET("/rtc-config", h.RTCConfig)
	api.POST("/transcribe", h.Transcribe)

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws endpoint hit")
		ws.Handle(ctx, c)
	})

	return r
}
