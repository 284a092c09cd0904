package model

// Session is the live per-account state shown on the dashboard and attached
// to every log line. It is private to one pipeline execution.
type Session struct {
	AccIdx     int
	TelegramID string
	FirstName  string
	Username   string
	Proxy      string

	RegisterStatus string
	LoginStatus    string
	RewardStatus   string
	ProfileStatus  string
	TapStatus      string

	CoinBalance float64
	Energy      float64
	TapCount    int
}

func (s *Session) DisplayName() string {
	if s == nil {
		return "unknown"
	}
	if s.Username != "" && s.Username != "unknown" {
		return s.Username
	}
	return s.FirstName
}
