package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voloshyn/leks-tap-bot/internal/domain/model"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
	"github.com/voloshyn/leks-tap-bot/pkg/utils"
)

const (
	tapSignal        = "tap"
	tapInfoMarker    = "tap_info"
	stalenessTimeout = 10 * time.Second
	tapDelayMinMs    = 100
	tapDelayMaxMs    = 300
	tapBreakEvery    = 10
	tapBreakMinMs    = 500
	tapBreakMaxMs    = 1000
)

// tapConn is the subset of *websocket.Conn the engine needs.
type tapConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// TapSession drives the tap loop over an open streaming connection. Energy is
// server-authoritative: only inbound tap_info pushes mutate it, while the
// send loop reads the latest value before each tap.
type TapSession struct {
	conn    tapConn
	log     *logger.ClassLogger
	session *model.Session

	staleness     time.Duration
	tapDelayMin   int
	tapDelayMax   int
	breakDelayMin int
	breakDelayMax int

	mu         sync.Mutex
	energy     float64
	lastUpdate time.Time
}

func NewTapSession(conn tapConn, log *logger.ClassLogger, session *model.Session) *TapSession {
	return &TapSession{
		conn:          conn,
		log:           log,
		session:       session,
		staleness:     stalenessTimeout,
		tapDelayMin:   tapDelayMinMs,
		tapDelayMax:   tapDelayMaxMs,
		breakDelayMin: tapBreakMinMs,
		breakDelayMax: tapBreakMaxMs,
	}
}

// Run sends tap signals until the server-reported energy can no longer cover
// a full tap, no update has arrived within the staleness window, or a send
// fails. The connection is closed on every exit path. Returns taps sent.
func (t *TapSession) Run(initialEnergy, coinsPerTap float64) int {
	t.mu.Lock()
	t.energy = initialEnergy
	t.lastUpdate = time.Now()
	t.mu.Unlock()

	defer func() {
		if err := t.conn.Close(); err != nil {
			t.log.JustLog(fmt.Sprintf("Error closing websocket: %v", err))
		} else {
			t.log.JustLog("WebSocket connection closed")
		}
	}()

	go t.readLoop()

	t.log.Log(fmt.Sprintf("Starting tapping with initial energy: %.2f", initialEnergy), 0)

	tapCount := 0
	for {
		energy := t.currentEnergy()
		if coinsPerTap <= 0 || energy <= math.Mod(energy, coinsPerTap) {
			break
		}

		if err := t.conn.WriteMessage(websocket.TextMessage, []byte(tapSignal)); err != nil {
			t.log.Log(fmt.Sprintf("Error during tapping: %v", err), 0)
			break
		}
		tapCount++
		if t.session != nil {
			t.session.TapCount = tapCount
			t.session.Energy = energy
		}

		time.Sleep(utils.RandomDuration(t.tapDelayMin, t.tapDelayMax))

		if tapCount%tapBreakEvery == 0 {
			time.Sleep(utils.RandomDuration(t.breakDelayMin, t.breakDelayMax))
			t.log.Log(fmt.Sprintf("Taking a short break after %d taps", tapCount), 0)
		}

		if time.Since(t.lastUpdateTime()) > t.staleness {
			t.log.Log(fmt.Sprintf("No energy updates received for %s, stopping taps", t.staleness), 0)
			break
		}
	}

	t.log.Log(fmt.Sprintf("Tapping completed. Total taps: %d", tapCount), 0)
	return tapCount
}

// readLoop consumes server pushes. Frames without the tap_info marker, and
// frames that fail to decode, are dropped without error.
func (t *TapSession) readLoop() {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			return
		}

		if !bytes.Contains(data, []byte(tapInfoMarker)) {
			continue
		}

		var msg struct {
			TapInfo model.TapInfo `json:"tap_info"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		t.mu.Lock()
		t.energy = msg.TapInfo.Energy
		t.lastUpdate = time.Now()
		t.mu.Unlock()

		t.log.JustLog(fmt.Sprintf("Tap result: Energy=%.2f, Mined=%.2f, Passive=%.2f",
			msg.TapInfo.Energy, msg.TapInfo.MinedCoins, msg.TapInfo.PassiveMinedCoins))
	}
}

func (t *TapSession) currentEnergy() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.energy
}

func (t *TapSession) lastUpdateTime() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastUpdate
}
