package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/canopy-network/pos-gateway/app/gateway/controller"
	"github.com/canopy-network/pos-gateway/app/gateway/types"
)

// NewServer builds the router and the http.Server of app.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router, err := ctler.NewRouter()
	if err != nil {
		return err
	}

	addr := app.Config.Addr()

	app.Server = &http.Server{
		Addr:              addr,
		Handler:           controller.WithCORS(app.Config.CORSAllowedOrigins, router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.Logger.Info("Starting server", zap.String("addr", addr))

	return nil
}
