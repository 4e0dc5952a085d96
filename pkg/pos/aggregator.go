package pos

import (
	"context"
	"errors"

	"github.com/alitto/pond/v2"
	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
	"go.uber.org/zap"
)

// epochResult is a sub-query result tagged with the epoch it was fetched for.
type epochResult[T any] struct {
	epoch posmodels.Epoch
	value T
	err   error
	done  bool
}

func fetchAt[T any](ctx context.Context, ec EpochContext, fetch func(context.Context, posmodels.Epoch) (T, error)) epochResult[T] {
	res := epochResult[T]{epoch: ec.Epoch(), done: true}
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}
	res.value, res.err = fetch(ctx, ec.Epoch())
	return res
}

// check validates a finished sub-result against the pinned epoch.
func (r epochResult[T]) check(ec EpochContext, what string) error {
	if !r.done {
		return internal("%s query did not run", what)
	}
	if r.err != nil {
		return queryFailure(r.err)
	}
	if r.epoch != ec.Epoch() {
		return internal("%s fetched at epoch %d, expected %d", what, r.epoch, ec.Epoch())
	}
	return nil
}

type metadataAndCommission struct {
	metadata   *posmodels.ValidatorMetadata
	commission posmodels.CommissionInfo
}

// Aggregator composes one validator's state, stake, metadata and commission into a
// single record at a single epoch.
type Aggregator struct {
	chain  rpc.Client
	epochs *EpochResolver
	pool   pond.Pool
	logger *zap.Logger
}

// NewAggregator returns an Aggregator that runs its sub-queries on pool.
func NewAggregator(chain rpc.Client, epochs *EpochResolver, pool pond.Pool, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{chain: chain, epochs: epochs, pool: pool, logger: logger}
}

// Aggregate resolves requested (or the current epoch) and builds the validator record at it.
func (a *Aggregator) Aggregate(ctx context.Context, address posmodels.Address, requested *posmodels.Epoch) (posmodels.ValidatorDetail, error) {
	ec, err := a.epochs.Resolve(ctx, requested)
	if err != nil {
		return posmodels.ValidatorDetail{}, err
	}
	return a.AggregateAt(ctx, ec, address)
}

// AggregateAt builds the validator record at an already pinned epoch.
// A non-validator address yields NotFound and no further queries are issued.
func (a *Aggregator) AggregateAt(ctx context.Context, ec EpochContext, address posmodels.Address) (posmodels.ValidatorDetail, error) {
	if !ec.Valid() {
		return posmodels.ValidatorDetail{}, internal("epoch not resolved for %s", address)
	}

	isValidator, err := a.chain.IsValidator(ctx, address)
	if err != nil {
		return posmodels.ValidatorDetail{}, queryFailure(err)
	}
	if !isValidator {
		return posmodels.ValidatorDetail{}, notFound("not a validator")
	}

	var (
		state epochResult[*posmodels.ValidatorState]
		stake epochResult[*posmodels.Amount]
		meta  epochResult[metadataAndCommission]
	)

	group := a.pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	group.Submit(func() {
		state = fetchAt(groupCtx, ec, func(ctx context.Context, epoch posmodels.Epoch) (*posmodels.ValidatorState, error) {
			return a.chain.ValidatorState(ctx, address, epoch)
		})
	})
	group.Submit(func() {
		stake = fetchAt(groupCtx, ec, func(ctx context.Context, epoch posmodels.Epoch) (*posmodels.Amount, error) {
			return a.chain.ValidatorStake(ctx, address, epoch)
		})
	})
	group.Submit(func() {
		meta = fetchAt(groupCtx, ec, func(ctx context.Context, epoch posmodels.Epoch) (metadataAndCommission, error) {
			metadata, commission, err := a.chain.ValidatorMetadataAndCommission(ctx, address, epoch)
			return metadataAndCommission{metadata: metadata, commission: commission}, err
		})
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		a.logger.Debug("validator sub-queries failed",
			zap.String("address", address.String()),
			zap.Uint64("epoch", uint64(ec.Epoch())),
			zap.Error(err),
		)
	}
	if err := ctx.Err(); err != nil {
		return posmodels.ValidatorDetail{}, queryFailure(err)
	}

	if err := state.check(ec, "state"); err != nil {
		return posmodels.ValidatorDetail{}, err
	}
	if err := stake.check(ec, "stake"); err != nil {
		return posmodels.ValidatorDetail{}, err
	}
	if err := meta.check(ec, "metadata"); err != nil {
		return posmodels.ValidatorDetail{}, err
	}

	detail := posmodels.ValidatorDetail{
		Address:    address,
		Epoch:      ec.Epoch(),
		State:      posmodels.ValidatorStateUnknown,
		Stake:      posmodels.ZeroAmount(),
		Commission: meta.value.commission,
		Metadata:   meta.value.metadata,
	}
	if state.value != nil {
		detail.State = *state.value
	}
	if stake.value != nil {
		detail.Stake = *stake.value
	}

	return detail, nil
}
