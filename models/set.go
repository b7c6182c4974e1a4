// Package models holds the domain types shared by every layer.
//
// Form-bound inputs carry `form` tags (field names as they appear in the
// HTML forms) and `validate` tags consumed by pkg/validate.
package models

import "time"

// Set is a catalog item. Theme is the joined theme name, filled on reads.
type Set struct {
	SetNum    string    `json:"set_num"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	NumParts  int       `json:"num_parts"`
	ThemeID   int       `json:"theme_id"`
	ImgURL    string    `json:"img_url"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetInput is what the add and edit forms submit.
type SetInput struct {
	SetNum   string `form:"set_num" validate:"required,max=32"`
	Name     string `form:"name" validate:"required,max=255"`
	Year     int    `form:"year" validate:"gte=0,lte=9999"`
	NumParts int    `form:"num_parts" validate:"gte=0"`
	ThemeID  int    `form:"theme_id" validate:"gt=0"`
	ImgURL   string `form:"img_url" validate:"omitempty,url"`
}
