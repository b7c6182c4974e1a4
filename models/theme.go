package models

// Theme groups sets. Read-only to the web surface; written by the seed command.
type Theme struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
