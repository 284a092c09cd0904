package model

// Profile is the remote-reported account state. The UUID and Energy fields
// gate whether a tap session starts.
type Profile struct {
	ID          int64   `json:"id"`
	CoinBalance float64 `json:"coin_balance"`
	UUID        string  `json:"uuid"`
	Energy      float64 `json:"energy"`
	CoinsPerTap float64 `json:"coins_per_tap"`
}

type DailyReward struct {
	ID            int     `json:"id"`
	Day           int     `json:"day"`
	Reward        float64 `json:"reward"`
	CanClaim      bool    `json:"can_claim"`
	CurrentReward bool    `json:"current_reward"`
}

// TapInfo is the server push updating the energy counter during a tap
// session. Energy here is authoritative; the client never predicts it.
type TapInfo struct {
	CoinBalance       float64 `json:"coin_balance"`
	MinedCoins        float64 `json:"mined_coins"`
	PassiveMinedCoins float64 `json:"passive_mined_coins"`
	Energy            float64 `json:"energy"`
	NewLevel          bool    `json:"new_level"`
}
