package worker

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/voloshyn/leks-tap-bot/internal/domain/model"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
)

type fakeConn struct {
	mu        sync.Mutex
	taps      int
	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	onTap     func(tapNo int)
	writeErr  error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-f.inbound:
		return websocket.TextMessage, msg, nil
	case <-f.closed:
		return 0, nil, errors.New("use of closed network connection")
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	f.taps++
	n := f.taps
	f.mu.Unlock()
	if f.onTap != nil {
		f.onTap(n)
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func newTestTapSession(conn tapConn) *TapSession {
	session := &model.Session{Username: "tester"}
	ts := NewTapSession(conn, logger.NewNamed("TapSession", session), session)
	ts.tapDelayMin = 1
	ts.tapDelayMax = 2
	ts.breakDelayMin = 1
	ts.breakDelayMax = 2
	return ts
}

// waitForEnergy blocks the fake's push path until the session has applied the
// value, keeping the tap count deterministic.
func waitForEnergy(t *testing.T, ts *TapSession, want float64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ts.currentEnergy() != want {
		if time.Now().After(deadline) {
			t.Fatalf("energy never reached %.2f (at %.2f)", want, ts.currentEnergy())
		}
		time.Sleep(100 * time.Microsecond)
	}
}

func TestTapLoopStopsOnEnergyExhaustion(t *testing.T) {
	conn := newFakeConn()
	ts := newTestTapSession(conn)

	// Each tap is acknowledged with a push lowering energy by the tap cost.
	conn.onTap = func(tapNo int) {
		energy := 50.0 - 5.0*float64(tapNo)
		conn.inbound <- []byte(fmt.Sprintf(`{"tap_info":{"energy":%.1f,"mined_coins":%d}}`, energy, tapNo))
		waitForEnergy(t, ts, energy)
	}

	taps := ts.Run(50, 5)

	// energy > energy mod cost holds down to the last affordable tap: the
	// send at 5.0 is acknowledged with 0.0, and 0 > 0 mod 5 is false.
	assert.Equal(t, 10, taps)
	assert.True(t, conn.isClosed())
}

func TestTapLoopUsesLatestPushedEnergy(t *testing.T) {
	conn := newFakeConn()
	ts := newTestTapSession(conn)

	// The first acknowledgement reports exhaustion regardless of the initial
	// snapshot, so exactly one tap goes out.
	conn.onTap = func(tapNo int) {
		conn.inbound <- []byte(`{"tap_info":{"energy":0}}`)
		waitForEnergy(t, ts, 0)
	}

	taps := ts.Run(100, 5)
	assert.Equal(t, 1, taps)
	assert.True(t, conn.isClosed())
}

func TestTapLoopSendsNothingWhenEnergyBelowCost(t *testing.T) {
	conn := newFakeConn()
	ts := newTestTapSession(conn)

	taps := ts.Run(3, 5)

	assert.Equal(t, 0, taps)
	assert.True(t, conn.isClosed())
}

func TestTapLoopSendsNothingAtZeroEnergy(t *testing.T) {
	conn := newFakeConn()
	ts := newTestTapSession(conn)

	taps := ts.Run(0, 5)
	assert.Equal(t, 0, taps)
	assert.True(t, conn.isClosed())
}

func TestTapLoopStopsWhenUpdatesGoStale(t *testing.T) {
	conn := newFakeConn()
	ts := newTestTapSession(conn)
	ts.staleness = 50 * time.Millisecond
	ts.tapDelayMin = 30
	ts.tapDelayMax = 40

	// No acknowledgements at all: the loop must give up on its own.
	taps := ts.Run(1000, 1)

	assert.GreaterOrEqual(t, taps, 1)
	assert.Less(t, taps, 100)
	assert.True(t, conn.isClosed())
}

func TestTapLoopStopsOnSendError(t *testing.T) {
	conn := newFakeConn()
	conn.writeErr = errors.New("broken pipe")
	ts := newTestTapSession(conn)

	taps := ts.Run(50, 5)

	assert.Equal(t, 0, taps)
	assert.True(t, conn.isClosed())
}

func TestTapLoopIgnoresUnknownFrames(t *testing.T) {
	conn := newFakeConn()
	ts := newTestTapSession(conn)

	conn.onTap = func(tapNo int) {
		if tapNo == 1 {
			// Unknown shapes and broken JSON are dropped without error.
			conn.inbound <- []byte(`{"ping":"pong"}`)
			conn.inbound <- []byte(`{"tap_info":broken`)
			conn.inbound <- []byte(`{"tap_info":{"energy":0}}`)
			waitForEnergy(t, ts, 0)
		}
	}

	taps := ts.Run(10, 2)
	assert.Equal(t, 1, taps)
	assert.True(t, conn.isClosed())
}
