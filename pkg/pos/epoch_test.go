package pos

import (
	"context"
	"errors"
	"testing"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochResolver_Resolve(t *testing.T) {
	t.Run("requested epoch is used without a chain call", func(t *testing.T) {
		chain := newFakeChain(40)
		requested := posmodels.Epoch(7)

		ec, err := NewEpochResolver(chain).Resolve(context.Background(), &requested)
		require.NoError(t, err)
		assert.True(t, ec.Valid())
		assert.Equal(t, posmodels.Epoch(7), ec.Epoch())
		assert.Equal(t, 0, chain.totalCalls())
	})

	t.Run("current epoch costs exactly one query", func(t *testing.T) {
		chain := newFakeChain(40)

		ec, err := NewEpochResolver(chain).Resolve(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, posmodels.Epoch(40), ec.Epoch())
		assert.Equal(t, 1, chain.count("CurrentEpoch"))
	})

	t.Run("epoch zero is a valid requested epoch", func(t *testing.T) {
		chain := newFakeChain(40)
		requested := posmodels.Epoch(0)

		ec, err := NewEpochResolver(chain).Resolve(context.Background(), &requested)
		require.NoError(t, err)
		assert.True(t, ec.Valid())
		assert.Equal(t, posmodels.Epoch(0), ec.Epoch())
	})

	t.Run("failure is a query failure", func(t *testing.T) {
		chain := newFakeChain(40)
		chain.failures["CurrentEpoch"] = errors.New("node unreachable")

		_, err := NewEpochResolver(chain).Resolve(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, KindQueryFailure, KindOf(err))
		assert.Contains(t, err.Error(), "node unreachable")
		assert.Equal(t, 1, chain.count("CurrentEpoch"))
	})
}

func TestEpochContext_ZeroValueIsInvalid(t *testing.T) {
	var ec EpochContext
	assert.False(t, ec.Valid())
}
