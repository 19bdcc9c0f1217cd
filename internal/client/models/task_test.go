package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_Done(t *testing.T) {
	assert.True(t, (&Task{Status: StatusCompleted}).Done())
	assert.False(t, (&Task{Status: StatusPending}).Done())
	assert.False(t, (&Task{}).Done())
}
