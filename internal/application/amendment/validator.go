package amendment

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
)

// amendRouteInput is the typed form checked by the struct validator
type amendRouteInput struct {
	BookingID       string  `json:"bookingId" validate:"required,uuid"`
	DraftNo         string  `json:"draftNo" validate:"required,uuid"`
	PortOfLoading   *string `json:"portOfLoading" validate:"omitnil,len=5,portcode"`
	PortOfDischarge *string `json:"portOfDischarge" validate:"omitnil,len=5,portcode"`
	ActorID         string  `json:"actorId" validate:"omitempty,uuid"`
}

// PatchValidator checks the shape of an amendment request before any state is read
type PatchValidator struct {
	validate *validator.Validate
}

// NewPatchValidator creates a PatchValidator
func NewPatchValidator() *PatchValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("portcode", validPortCode)
	return &PatchValidator{validate: v}
}

// validPortCode rejects codes that lose characters to normalization, e.g. "USLA "
func validPortCode(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(shipping.NormalizePort(fl.Field().String())) == shipping.PortCodeLength
}

// Validate accepts only the declared optional patch keys, each holding a
// string of exactly five characters that stays five characters once trimmed.
// Identifiers must be UUIDs.
func (v *PatchValidator) Validate(req AmendRouteRequest) (*ValidatedAmendment, error) {
	var details []shared.FieldError

	input := amendRouteInput{
		BookingID: req.BookingID,
		DraftNo:   req.DraftNo,
		ActorID:   req.ActorID,
	}

	keys := make([]string, 0, len(req.Patch))
	for k := range req.Patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := req.Patch[key]
		var target **string
		switch key {
		case FieldPortOfLoading:
			target = &input.PortOfLoading
		case FieldPortOfDischarge:
			target = &input.PortOfDischarge
		default:
			details = append(details, shared.FieldError{Field: key, Message: "Unknown field"})
			continue
		}
		s, ok := raw.(string)
		if !ok {
			details = append(details, shared.FieldError{Field: key, Message: "Must be a string"})
			continue
		}
		*target = &s
	}

	if err := v.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate amendment request: %w", err)
		}
		for _, fe := range verrs {
			details = append(details, shared.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
	}

	if len(details) > 0 {
		return nil, shared.NewValidationError(details)
	}

	out := &ValidatedAmendment{
		Key: shipping.DraftKey{
			BookingID: uuid.MustParse(input.BookingID),
			DraftNo:   uuid.MustParse(input.DraftNo),
		},
		Patch: shipping.RoutePatch{
			PortOfLoading:   input.PortOfLoading,
			PortOfDischarge: input.PortOfDischarge,
		}.Normalized(),
	}
	if input.ActorID != "" {
		actor := uuid.MustParse(input.ActorID)
		out.Actor = &actor
	}
	return out, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "portcode":
		return "Must be a 5-character port code without surrounding spaces"
	case "uuid":
		return "Invalid UUID format"
	default:
		return "Invalid value"
	}
}
