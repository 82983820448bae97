package program

import "github.com/go-playground/validator/v10"

type (
	Objective struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}

	Module struct {
		ID         string      `json:"id"`
		Title      string      `json:"title"`
		Order      int         `json:"order"`
		Objectives []Objective `json:"objectives"`
	}

	Program struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Modules     []Module `json:"modules"`
	}

	NewProgram struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"max=5000"`
	}

	UpdateProgram struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"max=5000"`
	}

	NewObjective struct {
		Text string `json:"text" validate:"required,max=500"`
	}

	// NewModule creates or replaces a module with its objectives.
	NewModule struct {
		Title      string         `json:"title" validate:"required,max=200"`
		Order      int            `json:"order" validate:"min=0"`
		Objectives []NewObjective `json:"objectives" validate:"dive"`
	}
)

func (np NewProgram) Validate(validate *validator.Validate) error    { return validate.Struct(np) }
func (up UpdateProgram) Validate(validate *validator.Validate) error { return validate.Struct(up) }
func (nm NewModule) Validate(validate *validator.Validate) error     { return validate.Struct(nm) }
