package rpc

// Query bridge paths, relative to each configured endpoint.
const (
	healthPath = "/v1/health"
	epochPath  = "/v1/query/epoch"

	// Validator queries
	isValidatorPath       = "/v1/query/pos/is-validator"
	validatorStatePath    = "/v1/query/pos/validator-state"
	validatorStakePath    = "/v1/query/pos/validator-stake"
	validatorMetadataPath = "/v1/query/pos/validator-metadata"
	livenessInfoPath      = "/v1/query/pos/liveness-info"

	// Validator set queries
	activeValidatorSetPath        = "/v1/query/pos/validator-set/active"
	consensusValidatorSetPath     = "/v1/query/pos/validator-set/consensus"
	belowCapacityValidatorSetPath = "/v1/query/pos/validator-set/below-capacity"

	// Token queries
	tokenBalancePath     = "/v1/query/token/balance"
	tokenTotalSupplyPath = "/v1/query/token/total-supply"
	nativeTokenPath      = "/v1/query/token/native"
)
