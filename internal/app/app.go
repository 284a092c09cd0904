package app

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/voloshyn/leks-tap-bot/internal/app/worker"
	"github.com/voloshyn/leks-tap-bot/internal/config"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
	"github.com/voloshyn/leks-tap-bot/internal/platform/ui"
	"github.com/voloshyn/leks-tap-bot/internal/storage/identity"
	"github.com/voloshyn/leks-tap-bot/pkg/utils"
)

const (
	interAccountDelayMinMs = 3000
	interAccountDelayMaxMs = 8000
	rescheduleJitterMinMs  = 600_000
	rescheduleJitterMaxMs  = 2_400_000
)

type App struct{ cfg config.Config }

func New(cfg config.Config) *App { return &App{cfg: cfg} }

// Run executes batches forever. A batch failure is logged and rescheduled
// like a successful one; the process never stays down on error. An unusable
// identity store degrades every account to the fallback profile instead of
// aborting.
func (app *App) Run() error {
	log := logger.NewNamed("RunCoordinator", nil)

	identities, err := identity.NewStore(app.cfg.IdentityDBPath)
	if err != nil {
		log.JustLog(fmt.Sprintf("Identity store unavailable, using fallback profiles: %v", err))
		identities = nil
	} else {
		defer identities.Close()
	}

	for {
		if err := app.runBatch(identities, log); err != nil {
			log.JustLog(fmt.Sprintf("Critical error: %v", err))
		}
		app.waitForNextRun(log)
	}
}

func (app *App) runBatch(identities *identity.Store, log *logger.ClassLogger) error {
	log.JustLog("Starting batch run...")

	accounts, err := app.cfg.LoadAccounts()
	if err != nil {
		return err
	}

	var proxies []string
	if app.cfg.UseProxy {
		proxies, err = app.cfg.LoadProxies()
		if err != nil {
			return fmt.Errorf("failed to read proxy file: %w", err)
		}
	}

	log.JustLog(fmt.Sprintf("Loaded %d accounts and %d proxies", len(accounts), len(proxies)))

	for i, acc := range accounts {
		proxy, exhausted := ProxyForIndex(proxies, i)
		if app.cfg.UseProxy && exhausted {
			log.JustLog(fmt.Sprintf("[%s] Not enough proxies, using direct connection", acc.Username))
		}

		outcome := worker.Run(acc, i, proxy, app.cfg, identities)
		log.JustLog(outcome.String())

		if i < len(accounts)-1 {
			delay := utils.RandomDuration(interAccountDelayMinMs, interAccountDelayMaxMs)
			log.JustLog(fmt.Sprintf("Delay %s before processing next account", delay))
			time.Sleep(delay)
		}
	}

	log.JustLog("Batch run completed")
	return nil
}

// ProxyForIndex assigns proxies by list position. When the list runs out the
// account connects directly; the second return reports that fallback.
func ProxyForIndex(proxies []string, idx int) (string, bool) {
	if len(proxies) == 0 {
		return "", false
	}
	if idx < len(proxies) {
		return proxies[idx], false
	}
	return "", true
}

// waitForNextRun blocks until the next batch: the configured interval plus
// 10-40 minutes of jitter, with a live countdown.
func (app *App) waitForNextRun(log *logger.ClassLogger) {
	jitter := utils.RandomDuration(rescheduleJitterMinMs, rescheduleJitterMaxMs)
	total := time.Duration(app.cfg.RunIntervalHours)*time.Hour + jitter

	log.JustLog(fmt.Sprintf("Next run scheduled in %s", ui.FormatDelay(total)))

	deadline := time.Now().Add(total)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		pterm.Printo("--- Restarting in " + ui.FormatDelay(remaining) + " ---")

		sleep := time.Second
		if remaining < sleep {
			sleep = remaining
		}
		time.Sleep(sleep)
	}
	pterm.Println()
}
