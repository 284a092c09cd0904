package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL                  string
	RegisterEndpoint         string
	LoginEndpoint            string
	DailyRewardEndpoint      string
	DailyRewardClaimEndpoint string
	ProfileEndpoint          string
	SocketEndpoint           string

	DataFile       string
	ProxyFile      string
	UserAgentsFile string
	IdentityDBPath string

	UseProxy         bool
	RunIntervalHours int
}

// Account is one line of the data file: the raw Telegram initData blob plus
// the fields extracted from its URL-encoded user structure.
type Account struct {
	Hash       string
	TelegramID string
	FirstName  string
	Username   string
}

var (
	idPattern       = regexp.MustCompile(`user=%7B%22id%22%3A(\d+)`)
	namePattern     = regexp.MustCompile(`first_name%22%3A%22([^%]+)`)
	usernamePattern = regexp.MustCompile(`username%22%3A%22([^%]+)`)
)

func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using default values")
	}

	return Config{
		BaseURL:                  getEnvWithDefault("BASE_URL", "https://leks.space"),
		RegisterEndpoint:         getEnvWithDefault("REGISTER_ENDPOINT", "/api/register"),
		LoginEndpoint:            getEnvWithDefault("LOGIN_ENDPOINT", "/api/login"),
		DailyRewardEndpoint:      getEnvWithDefault("DAILY_REWARD_ENDPOINT", "/api/daily-rewards"),
		DailyRewardClaimEndpoint: getEnvWithDefault("DAILY_REWARD_CLAIM_ENDPOINT", "/api/daily-rewards/claim"),
		ProfileEndpoint:          getEnvWithDefault("PROFILE_ENDPOINT", "/api/profile"),
		SocketEndpoint:           getEnvWithDefault("SOCKET_ENDPOINT", "wss://socket.leks.space:8001"),
		DataFile:                 getEnvWithDefault("DATA_FILE", "configs/data.txt"),
		ProxyFile:                getEnvWithDefault("PROXY_FILE", "configs/proxy.txt"),
		UserAgentsFile:           getEnvWithDefault("USER_AGENTS_FILE", "configs/user_agents.txt"),
		IdentityDBPath:           getEnvWithDefault("IDENTITY_DB", "data/identity.db"),
		UseProxy:                 parseBoolWithDefault(os.Getenv("USE_PROXY"), false),
		RunIntervalHours:         parseIntWithDefault(os.Getenv("RUN_INTERVAL_HOURS"), 2),
	}
}

func getEnvWithDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func parseIntWithDefault(value string, defaultVal int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(value); err == nil && v >= 0 {
		return v
	}
	return defaultVal
}

func parseBoolWithDefault(value string, defaultVal bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	if v, err := strconv.ParseBool(value); err == nil {
		return v
	}
	return defaultVal
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("BASE_URL is required")
	}
	if strings.TrimSpace(c.SocketEndpoint) == "" {
		return errors.New("SOCKET_ENDPOINT is required")
	}
	if c.RunIntervalHours <= 0 {
		return errors.New("RUN_INTERVAL_HOURS must be positive")
	}
	return nil
}

// LoadAccounts reads the data file and extracts account fields from each raw
// initData line. Fields that cannot be matched fall back to "unknown" rather
// than failing the whole list.
func (c Config) LoadAccounts() ([]Account, error) {
	lines, err := readLines(c.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	accounts := make([]Account, 0, len(lines))
	for _, line := range lines {
		accounts = append(accounts, ParseAccountLine(line))
	}
	return accounts, nil
}

func ParseAccountLine(line string) Account {
	acc := Account{
		Hash:       line,
		TelegramID: "unknown",
		FirstName:  "unknown",
		Username:   "unknown",
	}
	if m := idPattern.FindStringSubmatch(line); m != nil {
		acc.TelegramID = m[1]
	}
	if m := namePattern.FindStringSubmatch(line); m != nil {
		acc.FirstName = m[1]
	}
	if m := usernamePattern.FindStringSubmatch(line); m != nil {
		acc.Username = m[1]
	}
	return acc
}

func (c Config) LoadProxies() ([]string, error) {
	return readLines(c.ProxyFile)
}

// LoadUserAgents returns the candidate pool for new identity profiles. A
// missing file is not an error: the identity store falls back to a fixed
// profile when the pool is empty.
func (c Config) LoadUserAgents() []string {
	lines, err := readLines(c.UserAgentsFile)
	if err != nil {
		return nil
	}
	return lines
}

func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
