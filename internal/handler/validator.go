package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/colmena-layout/internal/model"
)

// RequestValidator plugs go-playground/validator into echo.  Besides the
// stock tags it knows "zone", "sellstate", "tool" and "celltype", which
// accept exactly the values of the matching model enum.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator registers the enum tags.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return string(model.SanitizeZone(s)) == s
	})
	_ = v.RegisterValidation("sellstate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return string(model.SanitizeSellState(s)) == s
	})
	_ = v.RegisterValidation("tool", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return string(model.SanitizeTool(s)) == s
	})
	_ = v.RegisterValidation("celltype", func(fl validator.FieldLevel) bool {
		return model.ParseCellType(fl.Field().String()) != model.CellEmpty
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}
