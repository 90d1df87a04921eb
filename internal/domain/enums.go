package domain

import "strings"

type WorkType string

const (
	WorkProject WorkType = "project"
	WorkFeature WorkType = "feature"
	WorkLeave   WorkType = "leave"
)

// workTypeAliases maps lower-cased spreadsheet labels to work types.
// Leave is never imported from CSV; it is only entered by hand.
var workTypeAliases = map[string]WorkType{
	"project": WorkProject,
	"プロジェクト":  WorkProject,
	"feature": WorkFeature,
	"フィーチャー":  WorkFeature,
	"機能":      WorkFeature,
}

// ParseWorkTypeLabel normalizes a free-form work type label. Unknown labels
// fall back to WorkProject and report ok=false so callers can warn.
func ParseWorkTypeLabel(label string) (wt WorkType, ok bool) {
	if wt, ok := workTypeAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return wt, true
	}
	return WorkProject, false
}

// Valid reports whether t is one of the stored work types.
func (t WorkType) Valid() bool {
	switch t {
	case WorkProject, WorkFeature, WorkLeave:
		return true
	}
	return false
}

type StagingTarget string

const (
	TargetGlobal StagingTarget = "global"
	TargetPlan   StagingTarget = "plan"
	TargetAll    StagingTarget = "all"
)

// ParseStagingTarget validates a clear target string.
func ParseStagingTarget(s string) (StagingTarget, bool) {
	switch t := StagingTarget(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetGlobal, TargetPlan, TargetAll:
		return t, true
	}
	return "", false
}
