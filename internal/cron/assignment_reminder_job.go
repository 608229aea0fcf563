package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/loopcycle/loopcycle-backend/internal/notifications"
	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
)

const defaultReminderAge = 2 * time.Hour

type AssignmentReminderJobParams struct {
	Logger      *logger.Logger
	Assignments staleAssignmentLister
	Drivers     driverProfileFinder
	Dispatcher  notifications.Dispatcher
	ReminderAge time.Duration
}

type staleAssignmentLister interface {
	ListStaleAssigned(ctx context.Context, cutoff time.Time) ([]models.Assignment, error)
}

type driverProfileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error)
}

func NewAssignmentReminderJob(params AssignmentReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Assignments == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if params.Drivers == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	age := params.ReminderAge
	if age <= 0 {
		age = defaultReminderAge
	}
	return &assignmentReminderJob{
		logg:        params.Logger,
		assignments: params.Assignments,
		drivers:     params.Drivers,
		dispatcher:  params.Dispatcher,
		age:         age,
		now:         time.Now,
	}, nil
}

// assignmentReminderJob nudges drivers who have left an assignment
// unanswered past the reminder window.
type assignmentReminderJob struct {
	logg        *logger.Logger
	assignments staleAssignmentLister
	drivers     driverProfileFinder
	dispatcher  notifications.Dispatcher
	age         time.Duration
	now         func() time.Time
}

func (j *assignmentReminderJob) Name() string { return "assignment-reminder" }

func (j *assignmentReminderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.age)
	stale, err := j.assignments.ListStaleAssigned(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale assignments: %w", err)
	}

	var errs error
	reminded := 0
	for i := range stale {
		assignment := &stale[i]
		driver, err := j.drivers.FindByID(ctx, assignment.DriverID)
		if err != nil {
			j.logg.Error(ctx, "load driver for reminder", err)
			errs = multierr.Append(errs, fmt.Errorf("driver %s: %w", assignment.DriverID, err))
			continue
		}
		j.dispatcher.SendToUser(ctx, driver.UserID, notifications.Payload{
			Title:             "Assignment Awaiting Response",
			Message:           "You have a pickup assignment waiting for your response",
			Type:              enums.NotificationTypeAssignmentAlert,
			RelatedEntityType: "assignment",
			RelatedEntityID:   assignment.ID,
		})
		reminded++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":   cutoff,
		"stale":    len(stale),
		"reminded": reminded,
	})
	j.logg.Info(logCtx, "assignment reminders dispatched")
	return errs
}
