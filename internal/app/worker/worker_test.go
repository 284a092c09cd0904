package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voloshyn/leks-tap-bot/internal/config"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
	"github.com/voloshyn/leks-tap-bot/internal/storage/identity"
)

func TestResolveIdentityWithoutStoreFallsBack(t *testing.T) {
	acc := config.Account{FirstName: "Olena"}
	log := logger.NewNamed("Worker", nil)

	ua := resolveIdentity(acc, config.Config{}, nil, log)
	assert.Equal(t, identity.FallbackUserAgent, ua)
}
