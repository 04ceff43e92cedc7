package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStagedID(t *testing.T) {
	a := NewStagedID()
	b := NewStagedID()

	assert.NotEqual(t, a, b)
	assert.True(t, IsStagedID(a))
	assert.False(t, IsJobID(a))
}

func TestNewJobID(t *testing.T) {
	a := NewJobID()
	b := NewJobID()

	assert.NotEqual(t, a, b)
	assert.True(t, IsJobID(a))
	assert.False(t, IsStagedID(a))
}

func TestIDShapes(t *testing.T) {
	cases := []struct {
		Name         string
		Given        string
		ExpectStaged bool
		ExpectJob    bool
	}{
		{"Empty", "", false, false},
		{"BarePrefixStaged", "stg_", false, false},
		{"BarePrefixJob", "job_", false, false},
		{"Staged", "stg_abc123", true, false},
		{"Job", "job_abc123", false, true},
		{"Unprefixed", "abc123", false, false},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, IsStagedID(c.Given), c.ExpectStaged)
			assert.Equal(t, IsJobID(c.Given), c.ExpectJob)
		})
	}
}
