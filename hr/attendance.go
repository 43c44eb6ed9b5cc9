package hr

import (
	"context"
	"math"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

const attendanceStatusPresent = "present"

// GetAttendance returns the employee's attendance records between two dates,
// both inclusive.
func (s *Service) GetAttendance(ctx context.Context, employeeID int32, startDate, endDate string) ([]*store.AttendanceRecord, error) {
	return s.store.ListAttendance(ctx, &store.FindAttendance{
		EmployeeID: &employeeID,
		StartDate:  &startDate,
		EndDate:    &endDate,
	})
}

// TodayAttendance returns today's record for the employee, or nil.
func (s *Service) TodayAttendance(ctx context.Context, employeeID int32) (*store.AttendanceRecord, error) {
	today := s.today()
	return s.store.GetAttendance(ctx, &store.FindAttendance{
		EmployeeID: &employeeID,
		Date:       &today,
	})
}

// ClockIn records the employee's check-in for today. At most one check-in
// per employee per day; a second attempt fails with the existing check-in
// time in the message. A day record that exists without a check-in (e.g.
// created by an approved regularization) is completed in place.
func (s *Service) ClockIn(ctx context.Context, employeeID int32, location *string) (*store.AttendanceRecord, error) {
	today := s.today()
	now := s.now().Format("15:04")

	existing, err := s.store.GetAttendance(ctx, &store.FindAttendance{
		EmployeeID: &employeeID,
		Date:       &today,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.CheckIn != nil {
		return nil, errors.Errorf("already clocked in today at %s", *existing.CheckIn)
	}
	if existing != nil {
		status := attendanceStatusPresent
		return s.store.UpdateAttendance(ctx, &store.UpdateAttendance{
			ID:        existing.ID,
			CheckIn:   &now,
			Status:    &status,
			Location:  location,
			UpdatedTs: s.now().Unix(),
		})
	}

	return s.store.CreateAttendance(ctx, &store.CreateAttendance{
		EmployeeID: employeeID,
		Date:       today,
		CheckIn:    &now,
		Status:     attendanceStatusPresent,
		Location:   location,
	})
}

// ClockOut closes today's attendance record and computes work hours, rounded
// to two decimals.
func (s *Service) ClockOut(ctx context.Context, employeeID int32, location *string) (*store.AttendanceRecord, error) {
	today := s.today()
	now := s.now().Format("15:04")

	record, err := s.store.GetAttendance(ctx, &store.FindAttendance{
		EmployeeID: &employeeID,
		Date:       &today,
	})
	if err != nil {
		return nil, err
	}
	if record == nil || record.CheckIn == nil {
		return nil, errors.New("no check-in record found for today")
	}
	if record.CheckOut != nil {
		return nil, errors.New("already clocked out today")
	}

	hours, err := workHours(*record.CheckIn, now)
	if err != nil {
		return nil, err
	}

	return s.store.UpdateAttendance(ctx, &store.UpdateAttendance{
		ID:        record.ID,
		CheckOut:  &now,
		WorkHours: &hours,
		Location:  location,
		UpdatedTs: s.now().Unix(),
	})
}

// RaiseRegularization files a pending attendance correction request.
func (s *Service) RaiseRegularization(ctx context.Context, employeeID int32, date, reason string, requestedCheckIn, requestedCheckOut *string) (*store.Regularization, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.Errorf("invalid date: %s", date)
	}
	return s.store.CreateRegularization(ctx, &store.CreateRegularization{
		UID:               shortuuid.New(),
		EmployeeID:        employeeID,
		Date:              date,
		Reason:            reason,
		RequestedCheckIn:  requestedCheckIn,
		RequestedCheckOut: requestedCheckOut,
	})
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

// workHours computes the span between two HH:MM times, rounded to two
// decimals.
func workHours(checkIn, checkOut string) (float64, error) {
	in, err := time.Parse("15:04", checkIn)
	if err != nil {
		return 0, errors.Errorf("invalid check-in time: %s", checkIn)
	}
	out, err := time.Parse("15:04", checkOut)
	if err != nil {
		return 0, errors.Errorf("invalid check-out time: %s", checkOut)
	}
	hours := out.Sub(in).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Round(hours*100) / 100, nil
}
