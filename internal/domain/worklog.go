package domain

// WorkLog is one allocation of hours by a member, in a period, to a task.
type WorkLog struct {
	ID       string   `json:"id" validate:"required"`
	MemberID string   `json:"memberId" validate:"required"`
	PeriodID string   `json:"periodId" validate:"required"`
	Type     WorkType `json:"type" validate:"oneof=project feature leave"`
	TaskName string   `json:"taskName"`
	Hours    float64  `json:"hours" validate:"gte=0"`
}

// WorkLogKey is the semantic identity of a work log for de-duplication.
// The log's own ID takes no part in it.
type WorkLogKey struct {
	MemberID string
	PeriodID string
	TaskName string
	Type     WorkType
}

func (l WorkLog) Key() WorkLogKey {
	return WorkLogKey{
		MemberID: l.MemberID,
		PeriodID: l.PeriodID,
		TaskName: l.TaskName,
		Type:     l.Type,
	}
}
