package controller

import (
	"net/http"
	"slices"
	"time"

	"github.com/canopy-network/pos-gateway/app/gateway/types"
	"github.com/gorilla/mux"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// WithCORS is a middleware that adds CORS headers for the allowed origins. "*" allows any origin.
func WithCORS(allowed []string, next http.Handler) http.Handler {
	anyOrigin := slices.Contains(allowed, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case anyOrigin:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument reports every routed request to the HTTP monitor, labelled by route template.
func (c *Controller) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		c.App.Metrics.HTTPRequest(route, rec.status, time.Since(start))
	})
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(c.instrument)

	r.Handle("/health", http.HandlerFunc(c.HandleHealth)).Methods(http.MethodGet)
	r.Handle("/health/rpc", http.HandlerFunc(c.HandleRPCHealth)).Methods(http.MethodGet)
	if h := c.App.Metrics.Handler(); h != nil {
		r.Handle("/metrics", h).Methods(http.MethodGet)
	}

	r.HandleFunc("/epoch", c.HandleEpoch).Methods(http.MethodGet)

	r.HandleFunc("/pos/liveness_info", c.HandleLivenessInfo).Methods(http.MethodGet)
	r.HandleFunc("/pos/validators", c.HandleValidators).Methods(http.MethodGet)
	r.HandleFunc("/pos/validators/consensus/{consensus_address}", c.HandleValidatorByConsensusAddress).Methods(http.MethodGet)
	r.HandleFunc("/pos/validators/{address}", c.HandleValidator).Methods(http.MethodGet)
	r.HandleFunc("/pos/validator_set/consensus", c.HandleConsensusValidatorSet).Methods(http.MethodGet)
	r.HandleFunc("/pos/validator_set/below_capacity", c.HandleBelowCapacityValidatorSet).Methods(http.MethodGet)

	r.HandleFunc("/token/balance", c.HandleTokenBalance).Methods(http.MethodGet)
	r.HandleFunc("/token/total_supply", c.HandleTokenTotalSupply).Methods(http.MethodGet)
	r.HandleFunc("/token/native", c.HandleNativeToken).Methods(http.MethodGet)

	return r, nil
}
