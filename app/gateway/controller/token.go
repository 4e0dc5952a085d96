package controller

import (
	"net/http"
)

type nativeTokenResponse struct {
	Address string `json:"address"`
}

func (c *Controller) HandleTokenBalance(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	token, owner := qs.Get("token"), qs.Get("owner")
	if token == "" || owner == "" {
		writeError(w, http.StatusBadRequest, "token and owner are required")
		return
	}
	height, err := parseHeight(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := c.App.Service.TokenBalance(r.Context(), token, owner, height)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (c *Controller) HandleTokenTotalSupply(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	supply, err := c.App.Service.TotalSupply(r.Context(), token)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supply)
}

func (c *Controller) HandleNativeToken(w http.ResponseWriter, r *http.Request) {
	token, err := c.App.Service.NativeToken(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nativeTokenResponse{Address: token.String()})
}
