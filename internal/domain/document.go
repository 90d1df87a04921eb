package domain

// Document is the whole persisted state in its portable JSON form: the live
// plans plus any pending staging payloads.
type Document struct {
	Plans        []Plan           `json:"plans"`
	ActivePlanID string           `json:"activePlanId"`
	Staging      *StagingDocument `json:"staging,omitempty"`
}

type StagingDocument struct {
	Global *StagingPayload            `json:"global,omitempty"`
	ByPlan map[string]*StagingPayload `json:"byPlan,omitempty"`
}
