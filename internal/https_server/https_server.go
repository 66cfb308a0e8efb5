// Package https_server assembles the Gin engine: middleware, static
// blob serving and route registration.
package https_server

import (
	"unitcom_server/internal/config"
	"unitcom_server/internal/handler"
	"unitcom_server/internal/infrastructure/logger"
	"unitcom_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init builds the engine with the injected handler aggregate.
func Init(handlers *handler.Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// TLS redirect middleware is intentionally not wired here; TLS
	// terminates at the reverse proxy in the default deployment.
	// engine.Use(middleware.TlsHandler(config.GetConfig().MainConfig.Host, config.GetConfig().MainConfig.Port))

	// attachment blobs are served straight from the local store
	conf := config.GetConfig()
	engine.Static(conf.StorageConfig.PublicBase, conf.StorageConfig.RootPath)

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
