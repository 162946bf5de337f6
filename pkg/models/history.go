package models

import "time"

// Source records where an apply obtained its palette.
type Source string

const (
	SourceCache Source = "cache"
	SourceModel Source = "model"
	SourceNone  Source = "none"
)

// RenderPath records which renderer invocation an apply used.
type RenderPath string

const (
	RenderFromColor RenderPath = "color"
	RenderFromImage RenderPath = "image"
)

// ApplyRecord is one row of apply history.
type ApplyRecord struct {
	ID         int64         `json:"id"`
	ImagePath  string        `json:"image_path"`
	ImageHash  string        `json:"image_hash"`
	Mode       Mode          `json:"mode"`
	Source     Source        `json:"source"`
	RenderPath RenderPath    `json:"render_path"`
	Palette    Palette       `json:"palette,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SourceSummary aggregates history rows by palette source.
type SourceSummary struct {
	Source Source `json:"source"`
	Count  int    `json:"count"`
}
