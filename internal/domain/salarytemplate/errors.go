package salarytemplate

import "errors"

var (
	ErrTemplateNotFound      = errors.New("salary template not found")
	ErrFieldNotFound         = errors.New("template field not found")
	ErrDuplicateFieldKey     = errors.New("field key already exists in template")
	ErrInvalidFieldKey       = errors.New("invalid field key")
	ErrMandatoryFieldLocked  = errors.New("mandatory fields cannot be disabled")
	ErrFieldNotRemovable     = errors.New("only custom fields can be removed")
	ErrFieldNotEditable      = errors.New("only custom fields can be redefined")
	ErrInvalidDefaultValue   = errors.New("invalid default value")
	ErrInvalidRule           = errors.New("invalid validation rule")
	ErrBasicPayFieldRequired = errors.New("template must declare exactly one enabled basic pay field")
	ErrStaleTemplate         = errors.New("salary template was modified concurrently")
)
