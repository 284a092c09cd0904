package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/voloshyn/leks-tap-bot/internal/domain/model"
)

var (
	multi    *pterm.MultiPrinter
	spinners = make(map[int]*pterm.SpinnerPrinter)
	mu       sync.Mutex
)

func StartUISystem() {
	m, _ := pterm.DefaultMultiPrinter.Start()
	multi = m
}

func StopUISystem() {
	if multi != nil {
		multi.Stop()
	}
}

func UpdateStatus(session model.Session, status string, remainingDelay time.Duration) {
	mu.Lock()
	defer mu.Unlock()

	if multi == nil {
		return
	}

	delayStr := FormatDelay(remainingDelay)
	proxyStr := defaultString(session.Proxy, "direct")

	content := fmt.Sprintf(`
=============== Account %d ================
User          : %s (id %s)
Proxy         : %s

Register      : %s
Login         : %s
Daily Reward  : %s
Profile       : %s
Tap Session   : %s

Balance       : %.2f
Energy        : %.2f
Taps Sent     : %d

Status   : %s
Delay    : %s
===========================================`,
		session.AccIdx+1,
		session.DisplayName(),
		session.TelegramID,
		proxyStr,
		defaultString(session.RegisterStatus, "WAITING"),
		defaultString(session.LoginStatus, "WAITING"),
		defaultString(session.RewardStatus, "WAITING"),
		defaultString(session.ProfileStatus, "WAITING"),
		defaultString(session.TapStatus, "WAITING"),
		session.CoinBalance,
		session.Energy,
		session.TapCount,
		status,
		delayStr)

	if spinner, ok := spinners[session.AccIdx]; ok {
		spinner.UpdateText(content)
	} else {
		spinner, _ := pterm.DefaultSpinner.
			WithWriter(multi.NewWriter()).
			WithRemoveWhenDone(false).
			Start(content)
		spinners[session.AccIdx] = spinner
	}
}

func SetSpinnerSuccess(session model.Session, finalMessage string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner, ok := spinners[session.AccIdx]; ok {
		spinner.UpdateText(finalMessage)
		spinner.Success()
	}
}

func SetSpinnerError(session model.Session, finalMessage string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner, ok := spinners[session.AccIdx]; ok {
		spinner.UpdateText(finalMessage)
		spinner.Fail()
	}
}

func FormatDelay(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d H %02d M %02d S", h, m, s)
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
