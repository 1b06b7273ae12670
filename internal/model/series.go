package model

import "time"

type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

type ChartMode string

const (
	ChartOverlay    ChartMode = "overlay"
	ChartNormalized ChartMode = "normalized"
	ChartTotal      ChartMode = "total"
)

type Chart struct {
	Mode   ChartMode          `json:"mode"`
	Range  string             `json:"range"`
	Series map[string][]Point `json:"series,omitempty"`
	Total  []Point            `json:"total,omitempty"`
}
