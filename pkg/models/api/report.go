package api

type MetricRecord struct {
	Source string   `json:"source"`
	Metric string   `json:"metric"`
	Value  *float64 `json:"value"`
	Raw    string   `json:"raw,omitempty"`
}

type Ledger struct {
	Records []MetricRecord `json:"records"`
	Sources []SourceStatus `json:"sources"`
}

type SourceStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type KPI struct {
	Name      string   `json:"name"`
	Value     *float64 `json:"value"`
	Display   string   `json:"display"`
	Delta     *float64 `json:"delta,omitempty"`
	Undefined bool     `json:"undefined,omitempty"`
}

type RankedChannel struct {
	Channel     string  `json:"channel"`
	Sessions    float64 `json:"sessions"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

type ChannelRanking struct {
	Channels      []RankedChannel `json:"channels"`
	TotalSessions float64         `json:"total_sessions"`
}

type Insight struct {
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
	Priority       string `json:"priority"`
}
