package worker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	adhttp "github.com/voloshyn/leks-tap-bot/internal/adapters/http"
	"github.com/voloshyn/leks-tap-bot/internal/adapters/ws"
	"github.com/voloshyn/leks-tap-bot/internal/config"
	"github.com/voloshyn/leks-tap-bot/internal/domain/model"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
	"github.com/voloshyn/leks-tap-bot/pkg/utils"
)

const claimSuccessMessage = "Reward claimed successfully"

type LeksWorker struct {
	api       *adhttp.APIClient
	cfg       config.Config
	account   config.Account
	session   *model.Session
	log       *logger.ClassLogger
	proxy     string
	userAgent string
	pause     func(minMs, maxMs int)
}

type registerPayload struct {
	Hash    string          `json:"hash"`
	Message registerMessage `json:"message"`
}

type registerMessage struct {
	Chat chatRef `json:"chat"`
	From fromRef `json:"from"`
}

type chatRef struct {
	ID int64 `json:"id"`
}

type fromRef struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
}

type loginPayload struct {
	Hash string `json:"hash"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type loginQuery struct {
	TelegramID string `url:"telegram_id"`
}

type claimResponse struct {
	Message string `json:"message"`
}

// Operate runs the five stages in strict order. A failed stage halts the
// pipeline for this account only; the daily reward stage is the one
// deliberate exception and never halts anything.
func (w *LeksWorker) Operate() Outcome {
	name := w.session.DisplayName()

	if err := w.register(); err != nil {
		w.session.RegisterStatus = statusFailed
		w.log.Log(fmt.Sprintf("Registration error: %v", err), 0)
		w.log.Log("Skipping further steps due to registration error", 0)
		return Outcome{Account: name, Stage: "register", Reason: err.Error()}
	}
	w.session.RegisterStatus = statusDone

	w.sleepBetweenStages(1000, 3000)

	token, err := w.login()
	if err != nil {
		w.session.LoginStatus = statusFailed
		w.log.Log(fmt.Sprintf("Login error: %v", err), 0)
		w.log.Log("Skipping further steps due to login error", 0)
		return Outcome{Account: name, Stage: "login", Reason: err.Error()}
	}
	w.session.LoginStatus = statusDone

	w.sleepBetweenStages(1000, 3000)

	if claimed := w.claimDailyReward(token); claimed {
		w.session.RewardStatus = statusDone
	} else {
		w.session.RewardStatus = statusSkipped
	}

	w.sleepBetweenStages(1000, 2000)

	profile, err := w.fetchProfile(token)
	if err != nil {
		w.session.ProfileStatus = statusFailed
		w.log.Log(fmt.Sprintf("Error getting profile: %v", err), 0)
		return Outcome{Account: name, Stage: "profile", Reason: err.Error()}
	}
	w.session.ProfileStatus = statusDone
	w.session.CoinBalance = profile.CoinBalance
	w.session.Energy = profile.Energy

	if profile.UUID == "" || profile.Energy <= 0 {
		w.session.TapStatus = statusSkipped
		w.log.Log("Profile missing UUID or energy information", 0)
		return Outcome{Account: name, Stage: "gate", Reason: "missing UUID or energy"}
	}
	if _, err := uuid.Parse(profile.UUID); err != nil {
		w.log.JustLog(fmt.Sprintf("Warning: session identifier is not a valid UUID: %s", profile.UUID))
	}

	w.sleepBetweenStages(1000, 3000)

	taps, ok := w.runTapSession(profile)
	if !ok {
		return Outcome{Account: name, Stage: "tap", Reason: "websocket connection failed"}
	}
	return Outcome{Account: name, Tapped: true, Taps: taps}
}

func (w *LeksWorker) register() error {
	w.session.RegisterStatus = statusInProgress
	w.log.Log("Registering user...", 0)

	payload := registerPayload{
		Hash: w.account.Hash,
		Message: registerMessage{
			Chat: chatRef{ID: w.telegramID()},
			From: fromRef{
				ID:           w.telegramID(),
				FirstName:    w.account.FirstName,
				LastName:     "",
				Username:     w.account.Username,
				LanguageCode: "uk",
				IsPremium:    true,
			},
		},
	}

	raw, err := w.api.Fetch(w.cfg.BaseURL+w.cfg.RegisterEndpoint, &adhttp.FetchOptions{
		Method: "POST",
		Body:   payload,
	})
	if err != nil {
		return err
	}

	w.log.Log(fmt.Sprintf("Registration successful: %v", summarize(raw)), 0)
	return nil
}

func (w *LeksWorker) login() (string, error) {
	w.session.LoginStatus = statusInProgress
	w.log.Log("Logging in user...", 0)

	params, err := utils.EncodeURLParams(loginQuery{TelegramID: w.account.TelegramID})
	if err != nil {
		return "", err
	}

	raw, err := w.api.Fetch(w.cfg.BaseURL+w.cfg.LoginEndpoint+"?"+params, &adhttp.FetchOptions{
		Method: "POST",
		Body:   loginPayload{Hash: w.account.Hash},
	})
	if err != nil {
		return "", err
	}

	var res loginResponse
	if err := decodeInto(raw, &res); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if strings.TrimSpace(res.Token) == "" {
		return "", fmt.Errorf("login successful, but no token received")
	}

	w.log.Log("Login successful, token received", 0)
	return res.Token, nil
}

// claimDailyReward reports whether a reward was claimed. Every failure path
// here is non-fatal: the pipeline proceeds regardless.
func (w *LeksWorker) claimDailyReward(token string) bool {
	w.session.RewardStatus = statusInProgress
	w.log.Log("Checking daily rewards...", 0)

	raw, err := w.api.Fetch(w.cfg.BaseURL+w.cfg.DailyRewardEndpoint, &adhttp.FetchOptions{
		Method: "GET",
		Token:  token,
	})
	if err != nil {
		w.log.Log(fmt.Sprintf("Error checking daily reward: %v", err), 0)
		return false
	}

	var rewards []model.DailyReward
	if err := decodeInto(raw, &rewards); err != nil {
		w.log.Log(fmt.Sprintf("Error decoding daily rewards: %v", err), 0)
		return false
	}

	claimable := firstClaimable(rewards)
	if claimable == nil {
		w.log.Log("No daily rewards available to claim", 0)
		return false
	}

	w.log.Log(fmt.Sprintf("Found claimable daily reward: Day %d, Amount: %.2f", claimable.Day, claimable.Reward), 0)

	rawClaim, err := w.api.Fetch(w.cfg.BaseURL+w.cfg.DailyRewardClaimEndpoint, &adhttp.FetchOptions{
		Method: "POST",
		Token:  token,
		Body:   map[string]string{},
	})
	if err != nil {
		w.log.Log(fmt.Sprintf("Error claiming daily reward: %v", err), 0)
		return false
	}

	var res claimResponse
	if err := decodeInto(rawClaim, &res); err != nil || res.Message != claimSuccessMessage {
		w.log.Log("Failed to claim daily reward", 0)
		return false
	}

	w.log.Log(fmt.Sprintf("Daily reward claimed successfully: %.2f coins", claimable.Reward), 0)
	return true
}

// firstClaimable picks the earliest-listed claimable entry; list order is the
// only ordering applied.
func firstClaimable(rewards []model.DailyReward) *model.DailyReward {
	for i := range rewards {
		if rewards[i].CanClaim {
			return &rewards[i]
		}
	}
	return nil
}

func (w *LeksWorker) fetchProfile(token string) (*model.Profile, error) {
	w.session.ProfileStatus = statusInProgress
	w.log.Log("Getting user profile...", 0)

	raw, err := w.api.Fetch(w.cfg.BaseURL+w.cfg.ProfileEndpoint, &adhttp.FetchOptions{
		Method: "GET",
		Token:  token,
	})
	if err != nil {
		return nil, err
	}

	var profile model.Profile
	if err := decodeInto(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	w.log.Log(fmt.Sprintf("Profile received: ID=%d, Balance=%.2f", profile.ID, profile.CoinBalance), 0)
	return &profile, nil
}

func (w *LeksWorker) runTapSession(profile *model.Profile) (int, bool) {
	w.session.TapStatus = statusInProgress

	wsURL := strings.TrimRight(w.cfg.SocketEndpoint, "/") + "/" + profile.UUID
	w.log.Log(fmt.Sprintf("Connecting to WebSocket: %s", wsURL), 0)

	conn, err := ws.Dial(wsURL, w.proxy, w.userAgent)
	if err != nil {
		w.session.TapStatus = statusFailed
		w.log.Log(fmt.Sprintf("Failed to establish WebSocket connection: %v", err), 0)
		return 0, false
	}
	w.log.Log("WebSocket connection established", 0)

	tapSession := NewTapSession(conn, w.log, w.session)
	taps := tapSession.Run(profile.Energy, profile.CoinsPerTap)

	w.session.TapStatus = statusDone
	return taps, true
}

// sleepBetweenStages paces consecutive stage calls. The countdown-aware Log
// performs the actual wait. Tests replace pause to run without delays.
func (w *LeksWorker) sleepBetweenStages(minMs, maxMs int) {
	if w.pause != nil {
		w.pause(minMs, maxMs)
		return
	}
	delay := utils.RandomDuration(minMs, maxMs)
	w.log.Log(fmt.Sprintf("Waiting %s before next step", delay), int(delay.Milliseconds()))
}

func (w *LeksWorker) telegramID() int64 {
	id, err := strconv.ParseInt(w.account.TelegramID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func decodeInto(in interface{}, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func summarize(raw interface{}) string {
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
