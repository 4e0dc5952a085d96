package controller

import (
	"net/http"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
)

type epochResponse struct {
	Epoch posmodels.Epoch `json:"epoch"`
}

// HandleEpoch returns the chain's current epoch.
func (c *Controller) HandleEpoch(w http.ResponseWriter, r *http.Request) {
	epoch, err := c.App.Service.CurrentEpoch(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, epochResponse{Epoch: epoch})
}
