package pos

import (
	"context"
	"errors"
	"slices"

	"github.com/alitto/pond/v2"
	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultPageWorkers = 10

// Opts configures a Service.
type Opts struct {
	Chain       rpc.Client
	AddressHRP  string
	PageWorkers int // concurrent validator aggregations per listing
	Logger      *zap.Logger
}

// Service answers every read the gateway exposes. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	chain      rpc.Client
	hrp        string
	epochs     *EpochResolver
	aggregator *Aggregator
	consensus  *ConsensusResolver
	itemPool   pond.Pool
	queryPool  pond.Pool
	logger     *zap.Logger
	tracer     trace.Tracer
}

// New builds a Service. Page items and their sub-queries run on separate pools so a full page
// can never starve the queries it waits on.
func New(opts Opts) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hrp := opts.AddressHRP
	if hrp == "" {
		hrp = posmodels.DefaultAddressHRP
	}
	workers := opts.PageWorkers
	if workers <= 0 {
		workers = defaultPageWorkers
	}

	itemPool := pond.NewPool(workers)
	queryPool := pond.NewPool(workers * 3)
	epochs := NewEpochResolver(opts.Chain)

	return &Service{
		chain:      opts.Chain,
		hrp:        hrp,
		epochs:     epochs,
		aggregator: NewAggregator(opts.Chain, epochs, queryPool, logger),
		consensus:  NewConsensusResolver(opts.Chain, epochs),
		itemPool:   itemPool,
		queryPool:  queryPool,
		logger:     logger,
		tracer:     otel.Tracer("github.com/canopy-network/pos-gateway/pkg/pos"),
	}
}

// Close waits for in-flight work and releases the worker pools.
func (s *Service) Close() {
	s.itemPool.StopAndWait()
	s.queryPool.StopAndWait()
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) parseAddress(raw, what string) (posmodels.Address, error) {
	addr, err := posmodels.ParseAddress(raw, s.hrp)
	if err != nil {
		return "", &Error{Kind: KindInvalidFormat, Message: "invalid " + what + " address: " + err.Error(), Err: err}
	}
	return addr, nil
}

func epochAttrs(epoch *posmodels.Epoch) []attribute.KeyValue {
	if epoch == nil {
		return nil
	}
	return []attribute.KeyValue{attribute.Int64("epoch", int64(*epoch))}
}

// CurrentEpoch returns the chain's current epoch.
func (s *Service) CurrentEpoch(ctx context.Context) (_ posmodels.Epoch, err error) {
	ctx, span := s.startSpan(ctx, "pos.CurrentEpoch")
	defer func() { endSpan(span, err) }()

	ec, err := s.epochs.Resolve(ctx, nil)
	if err != nil {
		return 0, err
	}
	return ec.Epoch(), nil
}

// ValidatorDetail returns the denormalized record of one validator.
func (s *Service) ValidatorDetail(ctx context.Context, rawAddress string, epoch *posmodels.Epoch) (_ posmodels.ValidatorDetail, err error) {
	ctx, span := s.startSpan(ctx, "pos.ValidatorDetail", append(epochAttrs(epoch), attribute.String("address", rawAddress))...)
	defer func() { endSpan(span, err) }()

	address, err := s.parseAddress(rawAddress, "validator")
	if err != nil {
		return posmodels.ValidatorDetail{}, err
	}
	return s.aggregator.Aggregate(ctx, address, epoch)
}

// ListValidators returns one page of the active validator set, every record built at the same epoch.
// Page bounds are checked before the chain is queried.
func (s *Service) ListValidators(ctx context.Context, page, perPage int, epoch *posmodels.Epoch) (_ posmodels.ValidatorsPage, err error) {
	ctx, span := s.startSpan(ctx, "pos.ListValidators", append(epochAttrs(epoch),
		attribute.Int("page", page),
		attribute.Int("per_page", perPage),
	)...)
	defer func() { endSpan(span, err) }()

	if err := ValidatePage(page, perPage); err != nil {
		return posmodels.ValidatorsPage{}, err
	}

	ec, err := s.epochs.Resolve(ctx, epoch)
	if err != nil {
		return posmodels.ValidatorsPage{}, err
	}

	active, err := s.chain.ActiveValidatorSet(ctx, ec.Epoch())
	if err != nil {
		return posmodels.ValidatorsPage{}, queryFailure(err)
	}
	slices.Sort(active)
	active = slices.Compact(active)

	result, err := Paginate(active, page, perPage)
	if err != nil {
		return posmodels.ValidatorsPage{}, err
	}

	details, err := s.aggregatePage(ctx, ec, result.Items)
	if err != nil {
		return posmodels.ValidatorsPage{}, err
	}

	return posmodels.ValidatorsPage{
		Validators: details,
		Pagination: posmodels.Pagination{
			Total:      result.Total,
			Page:       result.Page,
			PerPage:    result.PerPage,
			TotalPages: result.TotalPages,
		},
	}, nil
}

// aggregatePage builds every record of a page concurrently. The first failing item, in page
// order, fails the whole page.
func (s *Service) aggregatePage(ctx context.Context, ec EpochContext, addresses []posmodels.Address) ([]posmodels.ValidatorDetail, error) {
	details := make([]posmodels.ValidatorDetail, len(addresses))
	errs := make([]error, len(addresses))

	group := s.itemPool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i, address := range addresses {
		errs[i] = internal("validator %s was not aggregated", address)
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				errs[i] = queryFailure(err)
				return
			}
			details[i], errs[i] = s.aggregator.AggregateAt(groupCtx, ec, address)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		s.logger.Debug("page aggregation encountered error",
			zap.Uint64("epoch", uint64(ec.Epoch())),
			zap.Error(err),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, queryFailure(err)
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return details, nil
}

// ResolveConsensusAddress returns the validator address behind a consensus-engine address.
func (s *Service) ResolveConsensusAddress(ctx context.Context, raw string) (_ posmodels.Address, err error) {
	ctx, span := s.startSpan(ctx, "pos.ResolveConsensusAddress", attribute.String("consensus_address", raw))
	defer func() { endSpan(span, err) }()

	return s.consensus.Resolve(ctx, raw)
}

// LivenessInfo returns the liveness snapshot at epoch, or at the current epoch when nil.
func (s *Service) LivenessInfo(ctx context.Context, epoch *posmodels.Epoch) (_ posmodels.LivenessSnapshot, err error) {
	ctx, span := s.startSpan(ctx, "pos.LivenessInfo", epochAttrs(epoch)...)
	defer func() { endSpan(span, err) }()

	ec, err := s.epochs.Resolve(ctx, epoch)
	if err != nil {
		return posmodels.LivenessSnapshot{}, err
	}
	snapshot, err := s.chain.LivenessSnapshot(ctx, ec.Epoch())
	if err != nil {
		return posmodels.LivenessSnapshot{}, queryFailure(err)
	}
	if snapshot.Records == nil {
		snapshot.Records = []posmodels.LivenessRecord{}
	}
	return snapshot, nil
}

// ConsensusSet returns the consensus validator set with bonded stakes.
func (s *Service) ConsensusSet(ctx context.Context, epoch *posmodels.Epoch) (posmodels.ValidatorSet, error) {
	return s.weightedSet(ctx, "pos.ConsensusSet", epoch, s.chain.ConsensusValidatorSet)
}

// BelowCapacitySet returns the below-capacity validator set with bonded stakes.
func (s *Service) BelowCapacitySet(ctx context.Context, epoch *posmodels.Epoch) (posmodels.ValidatorSet, error) {
	return s.weightedSet(ctx, "pos.BelowCapacitySet", epoch, s.chain.BelowCapacityValidatorSet)
}

func (s *Service) weightedSet(
	ctx context.Context,
	name string,
	epoch *posmodels.Epoch,
	fetch func(context.Context, posmodels.Epoch) ([]posmodels.WeightedValidator, error),
) (_ posmodels.ValidatorSet, err error) {
	ctx, span := s.startSpan(ctx, name, epochAttrs(epoch)...)
	defer func() { endSpan(span, err) }()

	ec, err := s.epochs.Resolve(ctx, epoch)
	if err != nil {
		return posmodels.ValidatorSet{}, err
	}
	set, err := fetch(ctx, ec.Epoch())
	if err != nil {
		return posmodels.ValidatorSet{}, queryFailure(err)
	}
	if set == nil {
		set = []posmodels.WeightedValidator{}
	}
	return posmodels.ValidatorSet{Epoch: ec.Epoch(), Validators: set}, nil
}

// TokenBalance returns the balance of owner in token, at height when given.
func (s *Service) TokenBalance(ctx context.Context, rawToken, rawOwner string, height *uint64) (_ posmodels.TokenBalance, err error) {
	ctx, span := s.startSpan(ctx, "pos.TokenBalance", attribute.String("token", rawToken), attribute.String("owner", rawOwner))
	defer func() { endSpan(span, err) }()

	token, err := s.parseAddress(rawToken, "token")
	if err != nil {
		return posmodels.TokenBalance{}, err
	}
	owner, err := s.parseAddress(rawOwner, "owner")
	if err != nil {
		return posmodels.TokenBalance{}, err
	}

	balance, err := s.chain.TokenBalance(ctx, token, owner, height)
	if err != nil {
		return posmodels.TokenBalance{}, queryFailure(err)
	}
	return posmodels.TokenBalance{Token: token, Owner: owner, Balance: balance, Height: height}, nil
}

// TotalSupply returns the total supply of token.
func (s *Service) TotalSupply(ctx context.Context, rawToken string) (_ posmodels.TokenSupply, err error) {
	ctx, span := s.startSpan(ctx, "pos.TotalSupply", attribute.String("token", rawToken))
	defer func() { endSpan(span, err) }()

	token, err := s.parseAddress(rawToken, "token")
	if err != nil {
		return posmodels.TokenSupply{}, err
	}
	supply, err := s.chain.TokenTotalSupply(ctx, token)
	if err != nil {
		return posmodels.TokenSupply{}, queryFailure(err)
	}
	return posmodels.TokenSupply{Token: token, TotalSupply: supply}, nil
}

// NativeToken returns the address of the chain's native token.
func (s *Service) NativeToken(ctx context.Context) (_ posmodels.Address, err error) {
	ctx, span := s.startSpan(ctx, "pos.NativeToken")
	defer func() { endSpan(span, err) }()

	token, err := s.chain.NativeToken(ctx)
	if err != nil {
		return "", queryFailure(err)
	}
	return token, nil
}
