package pos

import (
	"context"
	"errors"
	"sync"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
)

type validatorFixture struct {
	state      *posmodels.ValidatorState
	stake      *posmodels.Amount
	metadata   *posmodels.ValidatorMetadata
	commission posmodels.CommissionInfo
}

// fakeChain is an in-memory rpc.Client that counts calls and records the epoch of every
// epoch-sensitive query per address.
type fakeChain struct {
	mu sync.Mutex

	epoch          posmodels.Epoch
	validators     map[posmodels.Address]validatorFixture
	active         []posmodels.Address
	liveness       posmodels.LivenessSnapshot
	consensusSet   []posmodels.WeightedValidator
	belowCapacity  []posmodels.WeightedValidator
	balances       map[posmodels.Address]posmodels.Amount
	nativeToken    posmodels.Address
	failures       map[string]error
	failForAddress map[posmodels.Address]error

	calls       map[string]int
	epochsSeen  map[posmodels.Address][]posmodels.Epoch
	queryEpochs []posmodels.Epoch
}

var _ rpc.Client = (*fakeChain)(nil)

func newFakeChain(epoch posmodels.Epoch) *fakeChain {
	return &fakeChain{
		epoch:          epoch,
		validators:     map[posmodels.Address]validatorFixture{},
		balances:       map[posmodels.Address]posmodels.Amount{},
		failures:       map[string]error{},
		failForAddress: map[posmodels.Address]error{},
		calls:          map[string]int{},
		epochsSeen:     map[posmodels.Address][]posmodels.Epoch{},
	}
}

func (f *fakeChain) addValidator(address posmodels.Address, fixture validatorFixture) {
	f.validators[address] = fixture
	f.active = append(f.active, address)
}

func (f *fakeChain) record(op string, address posmodels.Address, epoch *posmodels.Epoch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if epoch != nil {
		f.queryEpochs = append(f.queryEpochs, *epoch)
		if address != "" {
			f.epochsSeen[address] = append(f.epochsSeen[address], *epoch)
		}
	}
	if err, ok := f.failForAddress[address]; ok && address != "" && op != "IsValidator" {
		return err
	}
	return f.failures[op]
}

func (f *fakeChain) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeChain) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeChain) detailCalls() int {
	return f.count("IsValidator") + f.count("ValidatorState") + f.count("ValidatorStake") + f.count("ValidatorMetadataAndCommission")
}

func (f *fakeChain) Ping(context.Context) error {
	return f.record("Ping", "", nil)
}

func (f *fakeChain) CurrentEpoch(context.Context) (posmodels.Epoch, error) {
	if err := f.record("CurrentEpoch", "", nil); err != nil {
		return 0, err
	}
	return f.epoch, nil
}

func (f *fakeChain) IsValidator(_ context.Context, address posmodels.Address) (bool, error) {
	if err := f.record("IsValidator", address, nil); err != nil {
		return false, err
	}
	_, ok := f.validators[address]
	return ok, nil
}

func (f *fakeChain) ValidatorState(_ context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.ValidatorState, error) {
	if err := f.record("ValidatorState", address, &epoch); err != nil {
		return nil, err
	}
	return f.validators[address].state, nil
}

func (f *fakeChain) ValidatorStake(_ context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.Amount, error) {
	if err := f.record("ValidatorStake", address, &epoch); err != nil {
		return nil, err
	}
	return f.validators[address].stake, nil
}

func (f *fakeChain) ValidatorMetadataAndCommission(_ context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.ValidatorMetadata, posmodels.CommissionInfo, error) {
	if err := f.record("ValidatorMetadataAndCommission", address, &epoch); err != nil {
		return nil, posmodels.CommissionInfo{}, err
	}
	v := f.validators[address]
	return v.metadata, v.commission, nil
}

func (f *fakeChain) LivenessSnapshot(_ context.Context, epoch posmodels.Epoch) (posmodels.LivenessSnapshot, error) {
	if err := f.record("LivenessSnapshot", "", &epoch); err != nil {
		return posmodels.LivenessSnapshot{}, err
	}
	return f.liveness, nil
}

func (f *fakeChain) ActiveValidatorSet(_ context.Context, epoch posmodels.Epoch) ([]posmodels.Address, error) {
	if err := f.record("ActiveValidatorSet", "", &epoch); err != nil {
		return nil, err
	}
	return append([]posmodels.Address(nil), f.active...), nil
}

func (f *fakeChain) ConsensusValidatorSet(_ context.Context, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error) {
	if err := f.record("ConsensusValidatorSet", "", &epoch); err != nil {
		return nil, err
	}
	return f.consensusSet, nil
}

func (f *fakeChain) BelowCapacityValidatorSet(_ context.Context, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error) {
	if err := f.record("BelowCapacityValidatorSet", "", &epoch); err != nil {
		return nil, err
	}
	return f.belowCapacity, nil
}

func (f *fakeChain) TokenBalance(_ context.Context, _, owner posmodels.Address, _ *uint64) (posmodels.Amount, error) {
	if err := f.record("TokenBalance", "", nil); err != nil {
		return posmodels.Amount{}, err
	}
	balance, ok := f.balances[owner]
	if !ok {
		return posmodels.ZeroAmount(), nil
	}
	return balance, nil
}

func (f *fakeChain) TokenTotalSupply(context.Context, posmodels.Address) (posmodels.Amount, error) {
	if err := f.record("TokenTotalSupply", "", nil); err != nil {
		return posmodels.Amount{}, err
	}
	return posmodels.MustParseAmount("1000000000"), nil
}

func (f *fakeChain) NativeToken(context.Context) (posmodels.Address, error) {
	if err := f.record("NativeToken", "", nil); err != nil {
		return "", err
	}
	if f.nativeToken == "" {
		return "", errors.New("native token not configured")
	}
	return f.nativeToken, nil
}
