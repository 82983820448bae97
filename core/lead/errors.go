package lead

import "github.com/pkg/errors"

var (
	ErrNotFound      = errors.New("lead not found")
	ErrReadOnly      = errors.New("the pipeline is read-only for this role")
	ErrForbidden     = errors.New("permission denied")
	ErrInvalidStage  = errors.New("invalid pipeline stage")
	ErrAlreadyDumped = errors.New("lead is already in the lead dump")
	ErrNoLeads       = errors.New("no leads selected")
)
