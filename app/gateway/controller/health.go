package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-jose/go-jose/v4/json"
	"go.uber.org/zap"
)

const rpcHealthTimeout = 5 * time.Second

// HandleHealth reports that the gateway is serving and which node it talks to.
func (c *Controller) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	rpcURL := ""
	if urls := c.App.Config.RPCURLs; len(urls) > 0 {
		rpcURL = urls[0]
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "rpc_url": rpcURL})
}

// HandleRPCHealth pings the node and answers 503 when it is unreachable.
func (c *Controller) HandleRPCHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), rpcHealthTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := c.App.Chain.Ping(ctx); err != nil {
		c.App.Logger.Warn("rpc health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "errored", "error": "rpc connection error"})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
