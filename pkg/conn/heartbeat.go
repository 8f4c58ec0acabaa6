package conn

import "github.com/pulse-protocol/pulse-go/pkg/wire"

// Heartbeat protocol: while open, a repeating two-phase timer. The
// interval timer sends a ping and arms the timeout timer; a pong cancels
// the timeout and re-arms the interval. At most one of the two timers is
// armed at any moment, so a single generation counter is enough to
// invalidate a callback that lost a cancellation race.
//
// The pong-vs-timeout race is deliberately unsynchronized beyond the
// connection mutex: whichever handler enters the critical section first
// wins, and a timeout that beats an in-flight pong closes the
// connection.

// scheduleProbeLocked arms the interval timer for the next probe,
// cancelling any previous instance. Caller holds c.mu.
func (c *Connection) scheduleProbeLocked() {
	if c.intervalTimer != nil {
		c.intervalTimer.Stop()
	}
	c.timerGen++
	gen := c.timerGen
	c.intervalTimer = c.clk.AfterFunc(c.srv.PingInterval(), func() { c.onProbeDue(gen) })
}

// onProbeDue fires when the interval elapses: send a ping, record the
// send time, arm the timeout timer.
func (c *Connection) onProbeDue(gen uint64) {
	c.mu.Lock()
	if c.state != StateOpen || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.intervalTimer = nil
	c.pingTime = c.clk.Now()

	if c.timeoutTimer != nil {
		c.timeoutTimer.Stop()
	}
	c.timerGen++
	tgen := c.timerGen
	c.timeoutTimer = c.clk.AfterFunc(c.srv.PingTimeout(), func() { c.onProbeTimeout(tgen) })
	t := c.transport
	c.mu.Unlock()

	if err := t.Send(wire.Packet{Type: wire.PacketPing}); err != nil {
		// A dead transport reports through its Errors feed; otherwise
		// the armed timeout closes the connection.
		c.log.Debug().Err(err).Msg("failed to send ping")
	}
}

// onProbeTimeout fires when no pong arrived in time.
func (c *Connection) onProbeTimeout(gen uint64) {
	c.mu.Lock()
	if c.state != StateOpen || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timeoutTimer = nil
	elapsed := c.clk.Now().Sub(c.pingTime)
	c.mu.Unlock()

	c.log.Warn().Dur("elapsed", elapsed).Msg("heartbeat timeout")
	c.closeWith(ReasonPingTimeout, elapsed.String())
}

// onPong handles a probe acknowledgement: cancel the outstanding
// timeout, publish a heartbeat, restart the cycle.
func (c *Connection) onPong() {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	if c.timeoutTimer != nil {
		c.timeoutTimer.Stop()
		c.timeoutTimer = nil
	}
	c.scheduleProbeLocked()
	c.mu.Unlock()

	c.heartbeats.Publish(struct{}{})
}

// stopTimersLocked cancels both heartbeat timers and invalidates any
// callback already in flight. Caller holds c.mu.
func (c *Connection) stopTimersLocked() {
	if c.intervalTimer != nil {
		c.intervalTimer.Stop()
		c.intervalTimer = nil
	}
	if c.timeoutTimer != nil {
		c.timeoutTimer.Stop()
		c.timeoutTimer = nil
	}
	c.timerGen++
}
