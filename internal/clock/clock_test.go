package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	var order []string

	c.AfterFunc(3*time.Second, func() { order = append(order, "late") })
	c.AfterFunc(time.Second, func() { order = append(order, "early") })

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"early"}, order)

	c.Advance(time.Second)
	assert.Equal(t, []string{"early", "late"}, order)
	assert.Equal(t, time.Unix(3, 0), c.Now())
}

func TestFake_StopPreventsFire(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Minute)

	assert.False(t, fired)
	assert.Zero(t, c.Pending())
}

func TestFake_ChainedCallbacksWithinWindow(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.AfterFunc(time.Second, tick)
		}
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(10 * time.Second)

	assert.Equal(t, 3, count)
}

func TestFake_Ticker(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	ticker := c.NewTicker(time.Minute)

	c.Advance(59 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("ticked early")
	default:
	}

	c.Advance(time.Second)
	assert.Equal(t, time.Unix(60, 0), <-ticker.C())

	// Unread ticks are dropped, not queued.
	c.Advance(3 * time.Minute)
	assert.Equal(t, time.Unix(120, 0), <-ticker.C())
	assert.Empty(t, ticker.C())

	ticker.Stop()
	c.Advance(time.Hour)
	assert.Empty(t, ticker.C())
	assert.Zero(t, c.Pending())
}
