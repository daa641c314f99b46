package xhr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zishang520/xhr-polyfill/errors"
)

func TestCancellationFirstCauseWins(t *testing.T) {
	c := newCancellation(0)
	defer c.Finish()

	assert.Nil(t, c.Cause())
	assert.True(t, c.Cancel(errors.ErrAbort))
	assert.False(t, c.Cancel(errors.ErrTimeout))
	assert.ErrorIs(t, c.Cause(), errors.ErrAbort)
	assert.ErrorIs(t, c.Context().Err(), context.Canceled)
}

func TestCancellationTimeout(t *testing.T) {
	c := newCancellation(5 * time.Millisecond)
	defer c.Finish()

	select {
	case <-c.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("timeout did not cancel the token")
	}
	assert.ErrorIs(t, c.Cause(), errors.ErrTimeout)
}

func TestCancellationSettleDisarms(t *testing.T) {
	c := newCancellation(10 * time.Millisecond)
	c.Settle()
	c.Settle()

	assert.True(t, c.Settled())
	assert.False(t, c.Cancel(errors.ErrAbort))

	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, c.Cause())

	c.Finish()
	c.Finish()
	select {
	case <-c.Done():
	default:
		t.Fatal("Finish did not release waiters")
	}
}
