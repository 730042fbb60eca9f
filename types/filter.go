package types

// RecordFilter narrows the registry list endpoint. Zero values mean
// "no constraint".
type RecordFilter struct {
	Status       *int   `form:"status" json:"status,omitempty"`
	Kind         *int   `form:"kind" json:"kind,omitempty"`
	Counterparty string `form:"counterparty" json:"counterparty,omitempty"`
	Protocol     string `form:"protocol" json:"protocol,omitempty"`
	EndAfter     string `form:"end_after" json:"end_after,omitempty"`  // YYYY-MM-DD
	EndBefore    string `form:"end_before" json:"end_before,omitempty"`
	Limit        int    `form:"limit" json:"limit,omitempty"`
	Offset       int    `form:"offset" json:"offset,omitempty"`
}
