package domain

import "github.com/google/uuid"

// Default attributes for members created implicitly by an import.
const (
	DefaultMemberBuffer       = 5
	DefaultMemberProjectRatio = 50
	DefaultMemberFeatureRatio = 50
)

// Member is a tracked individual. ID is the reference key for work logs;
// Name is the natural key across merges.
type Member struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Buffer       float64 `json:"buffer" validate:"gte=0,lte=100"`
	ProjectRatio float64 `json:"projectRatio" validate:"gte=0,lte=100"`
	FeatureRatio float64 `json:"featureRatio" validate:"gte=0,lte=100"`
}

// NewMember creates a member with a fresh ID and the import defaults.
func NewMember(name string) Member {
	return Member{
		ID:           uuid.New().String(),
		Name:         name,
		Buffer:       DefaultMemberBuffer,
		ProjectRatio: DefaultMemberProjectRatio,
		FeatureRatio: DefaultMemberFeatureRatio,
	}
}
