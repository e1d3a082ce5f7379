package scheduler

import (
	"testing"

	"rentdesk-backend/internal/config"
	"rentdesk-backend/internal/jobs"
	"rentdesk-backend/internal/repository"
	"rentdesk-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers Overdue Job", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{MarkOverdueRentals: "0 */15 * * * *"}}
		s, err := NewScheduler(jobs.NewJobRunner(repository.Repositories{}, service.NewLogNotifier(), cfg))

		require.NoError(t, err)
		assert.True(t, s.IsRunning())
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("Bad Schedule", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{MarkOverdueRentals: "every now and then"}}
		_, err := NewScheduler(jobs.NewJobRunner(repository.Repositories{}, service.NewLogNotifier(), cfg))

		assert.ErrorContains(t, err, "MarkOverdueRentals")
	})
}
