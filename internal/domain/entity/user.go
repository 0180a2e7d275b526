package entity

const DefaultMannerTemperature = 36.5

type User struct {
	ID                string  `json:"id"`
	Nickname          string  `json:"nickname"`
	ProfileImageURL   string  `json:"profileImageUrl"`
	MannerTemperature float64 `json:"mannerTemperature"`
}

// MannerLevel buckets the seller's manner temperature for display.
func (u User) MannerLevel() string {
	switch {
	case u.MannerTemperature < 36:
		return "low"
	case u.MannerTemperature < 60:
		return "mid"
	default:
		return "high"
	}
}
