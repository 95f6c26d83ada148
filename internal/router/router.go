package router

import (
	"fmt"
	"time"

	"github.com/freshcart/internal/cache"
	"github.com/freshcart/internal/config"
	publichandlers "github.com/freshcart/internal/http/handlers/public"
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/provider"

	"github.com/gin-gonic/gin"
)

const loginRateLimitedMsg = "too many login attempts, retry in %d seconds"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", cache.Prefix()),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       loginRateLimitedMsg,
	}
	loginLimiter := RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email"))
	hydrationWait := time.Duration(cfg.Security.HydrationWaitMS) * time.Millisecond

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{
			"status":  "ok",
			"session": c.Session.State(),
		})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", h.GetConfig)
			public.GET("/products", h.GetProducts)
			public.GET("/products/:id", h.GetProduct)
		}

		// 以下接口依赖会话状态
		scoped := apiV1.Group("", HydrationMiddleware(c.Session, hydrationWait))

		scoped.GET("/session", h.GetSession)

		cart := scoped.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.DELETE("", h.ClearCart)
			cart.POST("/items", h.AddCartItem)
			cart.PUT("/items/:id", h.UpdateCartItem)
			cart.POST("/items/:id/increment", h.IncrementCartItem)
			cart.POST("/items/:id/decrement", h.DecrementCartItem)
			cart.DELETE("/items/:id", h.RemoveCartItem)
		}

		checkout := scoped.Group("/checkout")
		{
			checkout.GET("/quote", h.GetQuote)
			checkout.POST("/promo", h.ApplyPromo)
			checkout.DELETE("/promo", h.RemovePromo)
		}

		auth := scoped.Group("/auth")
		{
			auth.POST("/login", loginLimiter, h.UserLogin)
			auth.POST("/register", loginLimiter, h.UserRegister)
			auth.POST("/logout", h.UserLogout)
		}

		// 需要登录
		account := scoped.Group("", SessionRequiredMiddleware(c.Session))
		{
			account.GET("/profile", h.GetProfile)
			account.PATCH("/profile", h.UpdateProfile)
			account.POST("/profile/refresh", h.RefreshProfile)

			account.GET("/addresses", h.ListAddresses)
			account.POST("/addresses", h.AddAddress)
			account.DELETE("/addresses/:id", h.DeleteAddress)

			account.POST("/checkout/orders", h.PlaceOrder)
			account.GET("/orders", h.ListOrders)
		}
	}

	return r
}
