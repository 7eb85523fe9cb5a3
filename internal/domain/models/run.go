package models

import "time"

// RunReport summarizes one engine run for the invoking scheduler.
// HighImpact tells the caller whether a high-impact event gained an actual
// value this run, so it can trigger an immediate full recompute.
type RunReport struct {
	Trigger       string         `json:"trigger"`
	StartedAt     time.Time      `json:"started_at"`
	Duration      time.Duration  `json:"duration_ms"`
	NewEvents     int            `json:"new_events"`
	UpdatedEvents int            `json:"updated_events"`
	SkippedEvents int            `json:"skipped_events"`
	HighImpact    bool           `json:"high_impact"`
	Currencies    int            `json:"currencies"`
	Pairs         int            `json:"pairs"`
	Indices       int            `json:"indices"`
	Drivers       []MarketDriver `json:"drivers,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// MarketDriver is a qualitative macro driver derived after a full run.
type MarketDriver struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}
