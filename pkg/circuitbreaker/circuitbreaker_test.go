package circuitbreaker_test

import (
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/pkg/circuitbreaker"
)

func TestCircuitBreaker(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")
	failing := func() (interface{}, error) { return nil, fmt.Errorf("boom") }

	for i := 0; i < circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(failing)
		require.Error(t, err)
		require.Equal(t, gobreaker.StateClosed, cb.State())
	}

	_, err := cb.Execute(failing)
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err = cb.Execute(func() (interface{}, error) { return nil, nil })
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
