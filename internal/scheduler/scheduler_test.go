package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 20, hour, minute, 0, 0, time.UTC)
}

func TestDueDailyTask(t *testing.T) {
	task := &task{kind: kindDaily, hour: 8, minute: 0}

	assert.False(t, due(task, at(7, 59)))
	assert.True(t, due(task, at(8, 0)))
	assert.False(t, due(task, at(8, 1)))

	// A second tick in the same minute must not refire.
	ran := at(8, 0)
	task.lastRun = &ran
	assert.False(t, due(task, at(8, 0).Add(10*time.Second)))

	// The next day it fires again.
	assert.True(t, due(task, at(8, 0).Add(24*time.Hour)))
}

func TestDueIntervalTask(t *testing.T) {
	task := &task{kind: kindInterval, every: time.Hour}

	// Never run before: fires on the first tick.
	assert.True(t, due(task, at(12, 0)))

	ran := at(12, 0)
	task.lastRun = &ran
	assert.False(t, due(task, at(12, 30)))
	assert.True(t, due(task, at(13, 0)))
}

func TestAddIntervalTaskClampsToMinute(t *testing.T) {
	s := New(nil)
	s.AddIntervalTask("fast", time.Second, nil)

	assert.Equal(t, time.Minute, s.tasks[0].every)
}

func TestNextRun(t *testing.T) {
	now := at(10, 0)

	daily := &task{kind: kindDaily, hour: 8, minute: 30}
	// Today's slot already passed; next run is tomorrow.
	assert.Equal(t, at(8, 30).Add(24*time.Hour), nextRun(daily, now))

	upcoming := &task{kind: kindDaily, hour: 15, minute: 0}
	assert.Equal(t, at(15, 0), nextRun(upcoming, now))

	interval := &task{kind: kindInterval, every: 2 * time.Hour}
	assert.Equal(t, now, nextRun(interval, now))
	ran := at(9, 0)
	interval.lastRun = &ran
	assert.Equal(t, at(11, 0), nextRun(interval, now))
}

func TestStatusSnapshot(t *testing.T) {
	s := New(nil)
	s.AddDailyTask("digest", 9, 0, nil)
	s.AddIntervalTask("cleanup", time.Hour, nil)

	statuses := s.Status(at(8, 0))
	assert.Len(t, statuses, 2)
	assert.Equal(t, "digest", statuses[0].Name)
	assert.Equal(t, "daily", statuses[0].Kind)
	assert.Equal(t, at(9, 0), statuses[0].NextRun)
	assert.Equal(t, "cleanup", statuses[1].Name)
	assert.Equal(t, "interval", statuses[1].Kind)
	assert.False(t, statuses[1].Running)
}
