package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestIncTransition(t *testing.T) {
	before := testutil.ToFloat64(bookingTransitions.WithLabelValues("uncancel", "success"))
	IncTransition("uncancel", "success")
	IncTransition("uncancel", "success")
	assert.Equal(t, before+2, testutil.ToFloat64(bookingTransitions.WithLabelValues("uncancel", "success")))
}

func TestIncSideEffectFailure(t *testing.T) {
	before := testutil.ToFloat64(sideEffectFailures.WithLabelValues("publish"))
	IncSideEffectFailure("publish")
	assert.Equal(t, before+1, testutil.ToFloat64(sideEffectFailures.WithLabelValues("publish")))
}
