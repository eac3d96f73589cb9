package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// inputValidate checks use case inputs. Enum tags are registered in init().
var inputValidate *validator.Validate

func init() {
	inputValidate = validator.New(validator.WithRequiredStructEnabled())

	_ = inputValidate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return types.Category(fl.Field().String()).IsValid()
	})
	_ = inputValidate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return types.RiskStatus(fl.Field().String()).IsValid()
	})
	_ = inputValidate.RegisterValidation("framework", func(fl validator.FieldLevel) bool {
		return types.Framework(fl.Field().String()).IsValid()
	})
}

// CreateRiskInput is the user-supplied part of a new risk
type CreateRiskInput struct {
	Title          string            `json:"title" validate:"required"`
	Desc           string            `json:"desc" validate:"required"`
	Category       types.Category    `json:"category" validate:"required,category"`
	Owner          string            `json:"owner"`
	Status         types.RiskStatus  `json:"status" validate:"omitempty,status"`
	Likelihood     int               `json:"likelihood" validate:"min=1,max=10"`
	Impact         int               `json:"impact" validate:"min=1,max=10"`
	MappedControls []types.Framework `json:"mappedControls" validate:"unique,dive,framework"`
}

// AssessmentInput is a new assessment. A zero Date means now.
type AssessmentInput struct {
	Likelihood int       `json:"likelihood" validate:"min=1,max=10"`
	Impact     int       `json:"impact" validate:"min=1,max=10"`
	Assessor   string    `json:"assessor"`
	Notes      string    `json:"notes"`
	Date       time.Time `json:"date"`
}

// TreatmentInput is a new treatment
type TreatmentInput struct {
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"dueDate"`
}

// validateInput runs struct validation and converts failures into ErrValidation
func validateInput(v any) error {
	if err := inputValidate.Struct(v); err != nil {
		return goerr.Wrap(ErrValidation, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, name+" is required")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be between 1 and 10", name))
		case "unique":
			msgs = append(msgs, name+" contains duplicates")
		default:
			msgs = append(msgs, fmt.Sprintf("%s has invalid value %v", name, fe.Value()))
		}
	}
	return strings.Join(msgs, "; ")
}
