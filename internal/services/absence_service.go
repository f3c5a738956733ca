package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAbsenceNotFound     = errors.New("absence not found")
	ErrAbsenceInvalidRange = errors.New("absence end date must not precede its start date")
	ErrAbsenceNotPending   = errors.New("only pending absences can be resolved")
)

// AbsenceService tracks absence periods. Approving an absence places an
// absence-typed assignment into both slots of every covered business day via
// the scheduling engine, so absences occupy capacity like any other work.
type AbsenceService struct {
	db       *gorm.DB
	schedule *ScheduleService
}

// NewAbsenceService creates a new AbsenceService.
func NewAbsenceService(db *gorm.DB, schedule *ScheduleService) *AbsenceService {
	return &AbsenceService{
		db:       db,
		schedule: schedule,
	}
}

// CreateAbsenceInput represents parameters to request an absence period.
type CreateAbsenceInput struct {
	EmployeeID uint64
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// CreateAbsence records a pending absence request.
func (s *AbsenceService) CreateAbsence(input CreateAbsenceInput) (*models.Absence, error) {
	start := calendar.Truncate(input.StartDate)
	end := calendar.Truncate(input.EndDate)
	if end.Before(start) {
		return nil, ErrAbsenceInvalidRange
	}

	if _, err := s.schedule.employeeRepo.FindByID(input.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	absence := &models.Absence{
		EmployeeID: input.EmployeeID,
		Type:       input.Type,
		StartDate:  start,
		EndDate:    end,
		Status:     models.AbsenceStatusPending,
		Reason:     input.Reason,
	}

	if err := s.db.Create(absence).Error; err != nil {
		return nil, fmt.Errorf("failed to create absence: %w", err)
	}

	return absence, nil
}

// GetAbsence returns an absence by ID.
func (s *AbsenceService) GetAbsence(absenceID uint64) (*models.Absence, error) {
	var absence models.Absence
	if err := s.db.Preload("Employee").First(&absence, absenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenceNotFound
		}
		return nil, fmt.Errorf("failed to find absence: %w", err)
	}
	return &absence, nil
}

// ListAbsences lists absences, optionally restricted to an employee or status.
func (s *AbsenceService) ListAbsences(employeeID *uint64, status *models.AbsenceStatus) ([]models.Absence, error) {
	query := s.db.Model(&models.Absence{}).Order("start_date DESC")
	if employeeID != nil {
		query = query.Where("employee_id = ?", *employeeID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var absences []models.Absence
	if err := query.Find(&absences).Error; err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	return absences, nil
}

// ApproveAbsence marks a pending absence approved and books absence
// assignments into both slots of every covered business day. Days whose slots
// are already full are skipped rather than overbooked.
func (s *AbsenceService) ApproveAbsence(absenceID, absenceProjectID, absenceTaskTypeID uint64) (*models.Absence, error) {
	absence, err := s.GetAbsence(absenceID)
	if err != nil {
		return nil, err
	}
	if absence.Status != models.AbsenceStatusPending {
		return nil, ErrAbsenceNotPending
	}

	var specs []CreateAssignmentInput
	for day := range calendar.BusinessDaysBetween(absence.StartDate, absence.EndDate, time.Now()) {
		for _, slot := range []models.Slot{models.SlotMorning, models.SlotAfternoon} {
			absenceType := absence.Type
			specs = append(specs, CreateAssignmentInput{
				EmployeeID:  absence.EmployeeID,
				ProjectID:   &absenceProjectID,
				TaskTypeID:  &absenceTaskTypeID,
				TaskTitle:   absence.Type,
				Date:        day.Date,
				Slot:        slot,
				Notes:       absence.Reason,
				AbsenceType: &absenceType,
			})
		}
	}

	if _, err := s.schedule.BulkCreateAssignments(specs, BulkCreateOptions{AllowOverbooking: true}); err != nil {
		return nil, fmt.Errorf("failed to book absence assignments: %w", err)
	}

	absence.Status = models.AbsenceStatusApproved
	if err := s.db.Save(absence).Error; err != nil {
		return nil, fmt.Errorf("failed to approve absence: %w", err)
	}

	return absence, nil
}

// RejectAbsence marks a pending absence rejected.
func (s *AbsenceService) RejectAbsence(absenceID uint64) (*models.Absence, error) {
	absence, err := s.GetAbsence(absenceID)
	if err != nil {
		return nil, err
	}
	if absence.Status != models.AbsenceStatusPending {
		return nil, ErrAbsenceNotPending
	}

	absence.Status = models.AbsenceStatusRejected
	if err := s.db.Save(absence).Error; err != nil {
		return nil, fmt.Errorf("failed to reject absence: %w", err)
	}

	return absence, nil
}

// DeleteAbsence removes an absence request and soft-deletes any absence
// assignments booked for it.
func (s *AbsenceService) DeleteAbsence(absenceID uint64) error {
	absence, err := s.GetAbsence(absenceID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if absence.Status == models.AbsenceStatusApproved {
			err := tx.Model(&models.Assignment{}).
				Where("employee_id = ? AND absence_type = ? AND assigned_date >= ? AND assigned_date <= ?",
					absence.EmployeeID, absence.Type, absence.StartDate, absence.EndDate).
				Update("is_active", false).Error
			if err != nil {
				return fmt.Errorf("failed to remove absence assignments: %w", err)
			}
		}

		return tx.Delete(&models.Absence{}, absenceID).Error
	})
}
