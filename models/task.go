package models

// Task represents a single to-do item. Tasks have no separate ID; identity
// is the position within the stored list, and deletion shifts later
// positions down by one.
type Task struct {
	Text string `json:"text"` // task description as entered, trimmed
	Done bool   `json:"done"`
}

// Settings represents the persisted user preferences.
type Settings struct {
	Vibe string `json:"vibe"`
}
