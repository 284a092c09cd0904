package worker

import (
	"fmt"

	adhttp "github.com/voloshyn/leks-tap-bot/internal/adapters/http"
	"github.com/voloshyn/leks-tap-bot/internal/config"
	"github.com/voloshyn/leks-tap-bot/internal/domain/model"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
	"github.com/voloshyn/leks-tap-bot/internal/platform/ui"
	"github.com/voloshyn/leks-tap-bot/internal/storage/identity"
)

const (
	statusWaiting    = "WAITING"
	statusInProgress = "IN PROGRESS"
	statusDone       = "DONE"
	statusFailed     = "FAILED"
	statusSkipped    = "SKIPPED"
)

// Outcome is the only thing a pipeline run reports back. Failures inside the
// pipeline are classified and logged, never returned as errors: the
// coordinator always sees a normal completion.
type Outcome struct {
	Account string
	Tapped  bool
	Taps    int
	Stage   string
	Reason  string
}

func (o Outcome) String() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s: completed, %d taps", o.Account, o.Taps)
	}
	return fmt.Sprintf("%s: stopped at %s (%s)", o.Account, o.Stage, o.Reason)
}

// Run drives one account through the full pipeline:
// Register -> Login -> ClaimDailyReward -> FetchProfile -> TapSession.
func Run(account config.Account, index int, proxy string, cfg config.Config, identities *identity.Store) Outcome {
	session := model.Session{
		AccIdx:         index,
		TelegramID:     account.TelegramID,
		FirstName:      account.FirstName,
		Username:       account.Username,
		Proxy:          proxy,
		RegisterStatus: statusWaiting,
		LoginStatus:    statusWaiting,
		RewardStatus:   statusWaiting,
		ProfileStatus:  statusWaiting,
		TapStatus:      statusWaiting,
	}
	log := logger.NewNamed(fmt.Sprintf("Account %d", index+1), &session)

	userAgent := resolveIdentity(account, cfg, identities, log)

	apiClient, err := adhttp.NewAPIClient(proxy, userAgent, &session)
	if err != nil {
		log.Log(fmt.Sprintf("Could not initialize API client: %v", err), 0)
		return Outcome{Account: session.DisplayName(), Stage: "transport", Reason: err.Error()}
	}

	leks := &LeksWorker{
		api:       apiClient,
		cfg:       cfg,
		account:   account,
		session:   &session,
		log:       log,
		proxy:     proxy,
		userAgent: userAgent,
	}

	outcome := leks.Operate()
	if outcome.Reason == "" {
		ui.SetSpinnerSuccess(session, fmt.Sprintf("Completed: %d taps sent", outcome.Taps))
	} else {
		ui.SetSpinnerError(session, outcome.String())
	}
	return outcome
}

// resolveIdentity looks up the account's persisted fingerprint. Store
// failures degrade to the fixed fallback profile instead of skipping the
// account: a fresh fingerprint is worse than a lost one, but neither blocks
// the run.
func resolveIdentity(account config.Account, cfg config.Config, identities *identity.Store, log *logger.ClassLogger) string {
	if identities == nil {
		return identity.FallbackUserAgent
	}
	ua, err := identities.Resolve(account.FirstName, cfg.LoadUserAgents())
	if err != nil {
		log.JustLog(fmt.Sprintf("Warning: identity lookup failed, using fallback profile: %v", err))
		return identity.FallbackUserAgent
	}
	return ua
}
