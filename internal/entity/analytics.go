package entity

type AnalyticsCharts struct {
	ByType   []TypeCount `json:"by_type"`
	ByHost   []HostCount `json:"by_host"`
	OverTime []DateCount `json:"over_time"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type HostCount struct {
	Host  string `json:"host"`
	Count int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
