package models

// CronRunRequest parameterizes a triggered engine run.
type CronRunRequest struct {
	Trigger string `query:"trigger" json:"trigger" default:"cron" validate:"omitempty,oneof=cron manual high_impact schedule"`
}

// CalendarRefreshRequest narrows a calendar refresh to high-impact rows only.
type CalendarRefreshRequest struct {
	HighImpactOnly bool `query:"high_impact_only" json:"high_impact_only"`
}
