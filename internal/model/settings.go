package model

// Settings holds the user-facing preference flags.
type Settings struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
	DarkMode             bool `json:"darkMode"`
	DemoDataLoaded       bool `json:"demoDataLoaded"`
}

// DefaultSettings is what a fresh install reports before anything is saved.
func DefaultSettings() Settings {
	return Settings{NotificationsEnabled: true}
}
