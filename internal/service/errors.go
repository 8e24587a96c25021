package service

import "errors"

var (
	// ErrInsightsDisabled is returned for teams outside the enabled list.
	ErrInsightsDisabled = errors.New("insights are not enabled for this team")
	// ErrInsufficientData is returned when a period's snapshot is too thin or
	// too stale to say anything meaningful about.
	ErrInsufficientData = errors.New("insufficient data for insights")
)
