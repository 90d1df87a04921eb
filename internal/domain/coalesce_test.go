package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlay(t *testing.T) {
	zero := 0.0
	assert.Equal(t, 7.5, Overlay(7.5, nil))
	assert.Equal(t, 0.0, Overlay(7.5, &zero), "an explicit zero replaces the stored value")

	off := false
	assert.False(t, Overlay(true, &off))
}

func TestNameOr(t *testing.T) {
	assert.Equal(t, "Q1", NameOr("Q1", DefaultPlanName))
	assert.Equal(t, DefaultPlanName, NameOr("", DefaultPlanName))
	assert.Equal(t, DefaultPlanName, NameOr("  ", DefaultPlanName))
}
