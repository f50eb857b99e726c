package dto

import "elevator-dispatch-service/internal/ports"

type StatsResponse struct {
	Fleet        string                `json:"fleet"`
	Tick         int                   `json:"tick"`
	TotalScore   int                   `json:"total_score"`
	CallsByFloor map[int]int           `json:"calls_by_floor"`
	CallsByTick  []int                 `json:"calls_by_tick"`
	Journal      *ports.JournalSummary `json:"journal,omitempty"`
}

type FleetListResponse struct {
	Fleets []string `json:"fleets"`
}
