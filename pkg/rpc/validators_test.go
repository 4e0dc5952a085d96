package rpc

import (
	"context"
	"net/http"
	"testing"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testValidator = posmodels.Address("tnam1qqrqmryhz4wug6d8vydf5zw0ur85hyjxssfhsd4u")

func strPtr(s string) *string { return &s }

func TestHTTPClient_IsValidator(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/query/pos/is-validator", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body := decodeBody(r)
		assert.Equal(t, testValidator.String(), body["address"])
		_, hasEpoch := body["epoch"]
		assert.False(t, hasEpoch)
		writeJSONResponse(w, RpcIsValidator{IsValidator: true})
	})

	ok, err := newTestRPCClient(handler).IsValidator(context.Background(), testValidator)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPClient_ValidatorState(t *testing.T) {
	tests := []struct {
		name     string
		state    *string
		expected *posmodels.ValidatorState
	}{
		{name: "consensus", state: strPtr("consensus"), expected: statePtr(posmodels.ValidatorStateConsensus)},
		{name: "below capacity", state: strPtr("below_capacity"), expected: statePtr(posmodels.ValidatorStateBelowCapacity)},
		{name: "jailed mixed case", state: strPtr("Jailed"), expected: statePtr(posmodels.ValidatorStateJailed)},
		{name: "unknown spelling", state: strPtr("frozen"), expected: statePtr(posmodels.ValidatorStateUnknown)},
		{name: "no state", state: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/query/pos/validator-state", r.URL.Path)
				body := decodeBody(r)
				assert.Equal(t, float64(7), body["epoch"])
				writeJSONResponse(w, RpcValidatorState{State: tt.state})
			})

			state, err := newTestRPCClient(handler).ValidatorState(context.Background(), testValidator, 7)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, state)
		})
	}
}

func statePtr(s posmodels.ValidatorState) *posmodels.ValidatorState { return &s }

func TestHTTPClient_ValidatorStake(t *testing.T) {
	t.Run("large stake keeps precision", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSONResponse(w, RpcValidatorStake{Stake: strPtr("123456789012345678901234567890")})
		})
		stake, err := newTestRPCClient(handler).ValidatorStake(context.Background(), testValidator, 1)
		require.NoError(t, err)
		require.NotNil(t, stake)
		assert.Equal(t, "123456789012345678901234567890", stake.String())
	})

	t.Run("null stake", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSONResponse(w, RpcValidatorStake{})
		})
		stake, err := newTestRPCClient(handler).ValidatorStake(context.Background(), testValidator, 1)
		require.NoError(t, err)
		assert.Nil(t, stake)
	})

	t.Run("malformed stake is a query error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSONResponse(w, RpcValidatorStake{Stake: strPtr("12.5")})
		})
		_, err := newTestRPCClient(handler).ValidatorStake(context.Background(), testValidator, 1)
		require.Error(t, err)
		var queryErr *QueryError
		assert.ErrorAs(t, err, &queryErr)
	})
}

func TestHTTPClient_ValidatorMetadataAndCommission(t *testing.T) {
	t.Run("metadata and partial commission", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/query/pos/validator-metadata", r.URL.Path)
			writeJSONResponse(w, RpcValidatorMetadataResponse{
				Metadata: &RpcValidatorMetadata{
					Email:         strPtr("ops@example.com"),
					DiscordHandle: strPtr("ops#1"),
				},
				Commission: RpcCommissionPair{CommissionRate: strPtr("0.05")},
			})
		})

		metadata, commission, err := newTestRPCClient(handler).ValidatorMetadataAndCommission(context.Background(), testValidator, 4)
		require.NoError(t, err)
		require.NotNil(t, metadata)
		assert.Equal(t, "ops@example.com", *metadata.Email)
		assert.Equal(t, "ops#1", *metadata.DiscordHandle)
		assert.Nil(t, metadata.Website)
		require.NotNil(t, commission.Rate)
		assert.Equal(t, "0.05", commission.Rate.String())
		assert.Nil(t, commission.MaxChangePerEpoch)
	})

	t.Run("no metadata", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSONResponse(w, RpcValidatorMetadataResponse{})
		})

		metadata, commission, err := newTestRPCClient(handler).ValidatorMetadataAndCommission(context.Background(), testValidator, 4)
		require.NoError(t, err)
		assert.Nil(t, metadata)
		assert.Nil(t, commission.Rate)
	})
}

func TestHTTPClient_LivenessSnapshot(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/query/pos/liveness-info", r.URL.Path)
		assert.Equal(t, float64(11), decodeBody(r)["epoch"])
		writeJSONResponse(w, RpcLivenessInfo{
			LivenessWindowLen: 10000,
			LivenessThreshold: "0.9",
			Validators: []RpcValidatorLiveness{
				{NativeAddress: "TNAM1QQRQMRYHZ4WUG6D8VYDF5ZW0UR85HYJXSSFHSD4U", CometAddress: "ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12", MissedVotes: 3},
			},
		})
	})

	snapshot, err := newTestRPCClient(handler).LivenessSnapshot(context.Background(), 11)
	require.NoError(t, err)
	assert.EqualValues(t, 10000, snapshot.WindowLen)
	assert.Equal(t, "0.9", snapshot.Threshold.String())
	require.Len(t, snapshot.Records, 1)
	assert.Equal(t, testValidator, snapshot.Records[0].Address)
	assert.Equal(t, "AB12AB12AB12AB12AB12AB12AB12AB12AB12AB12", snapshot.Records[0].ConsensusAddress)
	assert.EqualValues(t, 3, snapshot.Records[0].MissedVotes)
}

func TestHTTPClient_ValidatorSets(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/query/pos/validator-set/active":
			writeJSONResponse(w, RpcAddressList{Validators: []string{testValidator.String()}})
		case "/v1/query/pos/validator-set/consensus":
			writeJSONResponse(w, RpcWeightedValidatorList{Validators: []RpcWeightedValidator{
				{Address: testValidator.String(), BondedStake: "1000"},
			}})
		case "/v1/query/pos/validator-set/below-capacity":
			writeJSONResponse(w, RpcWeightedValidatorList{Validators: []RpcWeightedValidator{
				{Address: testValidator.String(), BondedStake: "not-a-number"},
			}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	client := newTestRPCClient(handler)
	ctx := context.Background()

	active, err := client.ActiveValidatorSet(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []posmodels.Address{testValidator}, active)

	consensus, err := client.ConsensusValidatorSet(ctx, 2)
	require.NoError(t, err)
	require.Len(t, consensus, 1)
	assert.Equal(t, "1000", consensus[0].Stake.String())

	_, err = client.BelowCapacityValidatorSet(ctx, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below_capacity_validator_set")
}
