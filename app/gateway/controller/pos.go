package controller

import (
	"net/http"

	"github.com/gorilla/mux"
)

type validatorAddressResponse struct {
	Address string `json:"address"`
}

// HandleLivenessInfo returns the liveness snapshot at the requested or current epoch.
func (c *Controller) HandleLivenessInfo(w http.ResponseWriter, r *http.Request) {
	epoch, err := parseEpoch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := c.App.Service.LivenessInfo(r.Context(), epoch)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleValidator returns one validator record.
func (c *Controller) HandleValidator(w http.ResponseWriter, r *http.Request) {
	epoch, err := parseEpoch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := c.App.Service.ValidatorDetail(r.Context(), mux.Vars(r)["address"], epoch)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleValidators returns one page of the active validator set.
func (c *Controller) HandleValidators(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	epoch, err := parseEpoch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.App.Service.ListValidators(r.Context(), page, perPage, epoch)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleValidatorByConsensusAddress resolves a consensus-engine address to a validator address.
func (c *Controller) HandleValidatorByConsensusAddress(w http.ResponseWriter, r *http.Request) {
	address, err := c.App.Service.ResolveConsensusAddress(r.Context(), mux.Vars(r)["consensus_address"])
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validatorAddressResponse{Address: address.String()})
}

func (c *Controller) HandleConsensusValidatorSet(w http.ResponseWriter, r *http.Request) {
	epoch, err := parseEpoch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := c.App.Service.ConsensusSet(r.Context(), epoch)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (c *Controller) HandleBelowCapacityValidatorSet(w http.ResponseWriter, r *http.Request) {
	epoch, err := parseEpoch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := c.App.Service.BelowCapacitySet(r.Context(), epoch)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}
