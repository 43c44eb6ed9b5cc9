package hr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

// ApprovalResult is the outcome of an approval decision.
type ApprovalResult struct {
	RequestType string `json:"requestType"`
	RequestID   string `json:"requestId"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// ApproveOrReject applies a manager's decision to a pending request. Role
// enforcement happens in the guardrail layer before this is reached. An
// approved leave consumes the employee's balance; every decision writes a
// notification to the requesting employee.
func (s *Service) ApproveOrReject(ctx context.Context, approverID int32, requestType, requestUID, decision string, comments *string) (*ApprovalResult, error) {
	var status store.RequestStatus
	switch decision {
	case "approve":
		status = store.StatusApproved
	case "reject":
		status = store.StatusRejected
	default:
		return nil, errors.Errorf("invalid decision: %s", decision)
	}

	var employeeID int32
	var title string
	now := s.now().Unix()

	switch requestType {
	case "leave":
		request, err := s.store.GetLeaveRequest(ctx, &store.FindLeaveRequest{UID: &requestUID})
		if err != nil {
			return nil, err
		}
		if request == nil {
			return nil, errors.Errorf("leave request not found: %s", requestUID)
		}
		if request.Status != store.StatusPending {
			return nil, errors.Errorf("leave request already %s", request.Status)
		}
		if _, err := s.store.UpdateLeaveRequest(ctx, &store.UpdateLeaveRequest{
			ID:         request.ID,
			Status:     &status,
			ApproverID: &approverID,
			Comments:   comments,
			UpdatedTs:  now,
		}); err != nil {
			return nil, err
		}
		if status == store.StatusApproved {
			year, err := strconv.Atoi(request.StartDate[:4])
			if err != nil {
				return nil, errors.Errorf("invalid start date on request: %s", request.StartDate)
			}
			if err := s.store.AdjustLeaveBalance(ctx, request.EmployeeID, request.LeaveTypeID, year, request.Days); err != nil {
				return nil, err
			}
		}
		employeeID, title = request.EmployeeID, fmt.Sprintf("Leave request %s", status)

	case "regularization":
		request, err := s.store.GetRegularization(ctx, &store.FindRegularization{UID: &requestUID})
		if err != nil {
			return nil, err
		}
		if request == nil {
			return nil, errors.Errorf("regularization not found: %s", requestUID)
		}
		if request.Status != store.StatusPending {
			return nil, errors.Errorf("regularization already %s", request.Status)
		}
		if _, err := s.store.UpdateRegularization(ctx, &store.UpdateRegularization{
			ID:         request.ID,
			Status:     &status,
			ApproverID: &approverID,
			Comments:   comments,
			UpdatedTs:  now,
		}); err != nil {
			return nil, err
		}
		employeeID, title = request.EmployeeID, fmt.Sprintf("Regularization %s", status)

	case "expense":
		claim, err := s.store.GetExpenseClaim(ctx, &store.FindExpenseClaim{UID: &requestUID})
		if err != nil {
			return nil, err
		}
		if claim == nil {
			return nil, errors.Errorf("expense claim not found: %s", requestUID)
		}
		if claim.Status != store.StatusPending {
			return nil, errors.Errorf("expense claim already %s", claim.Status)
		}
		if _, err := s.store.UpdateExpenseClaim(ctx, &store.UpdateExpenseClaim{
			ID:         claim.ID,
			Status:     &status,
			ApproverID: &approverID,
			Comments:   comments,
			UpdatedTs:  now,
		}); err != nil {
			return nil, err
		}
		employeeID, title = claim.EmployeeID, fmt.Sprintf("Expense claim %s", status)

	default:
		return nil, errors.Errorf("invalid request type: %s", requestType)
	}

	message := fmt.Sprintf("Your %s request %s has been %s.", requestType, requestUID, status)
	if comments != nil && *comments != "" {
		message += " Comments: " + *comments
	}
	if _, err := s.store.CreateNotification(ctx, &store.CreateNotification{
		EmployeeID: employeeID,
		Type:       requestType,
		Title:      title,
		Message:    message,
	}); err != nil {
		return nil, err
	}

	return &ApprovalResult{
		RequestType: requestType,
		RequestID:   requestUID,
		Status:      string(status),
		Message:     fmt.Sprintf("Request %s successfully", pastTense(decision)),
	}, nil
}

func pastTense(decision string) string {
	if decision == "approve" {
		return "approved"
	}
	return "rejected"
}
