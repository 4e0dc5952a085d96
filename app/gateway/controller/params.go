package controller

import (
	"net/http"
	"strconv"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/canopy-network/pos-gateway/pkg/pos"
)

var (
	errInvalidEpoch   = &parseError{msg: "invalid epoch, must be a non-negative integer"}
	errInvalidHeight  = &parseError{msg: "invalid height, must be a non-negative integer"}
	errInvalidPage    = &parseError{msg: "invalid page, must be an integer"}
	errInvalidPerPage = &parseError{msg: "invalid per_page, must be an integer"}
)

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

func parseOptionalUint(r *http.Request, key string, invalid error) (*uint64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, invalid
	}
	return &n, nil
}

func parseEpoch(r *http.Request) (*posmodels.Epoch, error) {
	n, err := parseOptionalUint(r, "epoch", errInvalidEpoch)
	if err != nil || n == nil {
		return nil, err
	}
	epoch := posmodels.Epoch(*n)
	return &epoch, nil
}

func parseHeight(r *http.Request) (*uint64, error) {
	return parseOptionalUint(r, "height", errInvalidHeight)
}

// parsePage reads page and per_page. Bounds are enforced by the service.
func parsePage(r *http.Request) (page, perPage int, err error) {
	qs := r.URL.Query()
	page, perPage = pos.DefaultPage, pos.DefaultPerPage
	if v := qs.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, errInvalidPage
		}
	}
	if v := qs.Get("per_page"); v != "" {
		if perPage, err = strconv.Atoi(v); err != nil {
			return 0, 0, errInvalidPerPage
		}
	}
	return page, perPage, nil
}
