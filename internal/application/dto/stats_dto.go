package dto

// CountStatsResponse GET /requests/stats/count.
type CountStatsResponse struct {
	TotalRequests     int64 `json:"total_requests"`
	CompletedRequests int64 `json:"completed_requests"`
}

// AvgTimeResponse GET /requests/stats/avg-time. Días, redondeado a un decimal.
type AvgTimeResponse struct {
	AvgRepairDays float64 `json:"avg_repair_days"`
}

// TechTypeCount elemento de GET /requests/stats/by-tech.
type TechTypeCount struct {
	TechType string `json:"tech_type"`
	Count    int64  `json:"count"`
}

// ProblemTypeCount elemento de GET /requests/stats/by-problem-type.
type ProblemTypeCount struct {
	ProblemType string `json:"problem_type"`
	Count       int64  `json:"count"`
}
