package domain

// StagingPayload is a pending import waiting to be merged into a live plan.
type StagingPayload struct {
	Periods  []Period  `json:"periods,omitempty"`
	Members  []Member  `json:"members,omitempty"`
	WorkLogs []WorkLog `json:"workLogs,omitempty"`
}

// IsEmpty reports whether there is nothing to merge. A nil payload is empty.
func (s *StagingPayload) IsEmpty() bool {
	return s == nil || (len(s.Periods) == 0 && len(s.Members) == 0 && len(s.WorkLogs) == 0)
}

// StagingKey names one staging bucket. An empty PlanName is the global bucket.
type StagingKey struct {
	PlanName string
}

func (k StagingKey) IsGlobal() bool { return k.PlanName == "" }

func (k StagingKey) String() string {
	if k.IsGlobal() {
		return "global"
	}
	return "plan:" + k.PlanName
}
