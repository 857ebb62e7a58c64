package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New("store", WithFailureThreshold(3))

	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.True(t, b.RecordFailure(), "third failure should open the circuit")
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b := New("store", WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_AllowProbesWhileOpen(t *testing.T) {
	b := New("store", WithFailureThreshold(1), WithProbeInterval(5))
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())

	allowed := 0
	for i := 0; i < 10; i++ {
		if b.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed, "every 5th call should be allowed as a probe")
}

func TestBreaker_ClosesAfterProbeSuccesses(t *testing.T) {
	b := New("store", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	assert.False(t, b.RecordSuccess())
	assert.True(t, b.RecordSuccess(), "second probe success should close the circuit")
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("store", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}
