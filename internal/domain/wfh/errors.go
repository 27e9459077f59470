package wfh

import "errors"

var (
	ErrDuplicateRequest  = errors.New("you have already submitted a WFH request for this date")
	ErrNoManagerAssigned = errors.New("no manager assigned to your account")
	ErrInvalidDecision   = errors.New("invalid status, must be Approved or Rejected")
	ErrRequestNotFound   = errors.New("WFH request not found")
	ErrForbidden         = errors.New("you can only respond to requests addressed to you")
	ErrAlreadyProcessed  = errors.New("this request has already been processed")
)
