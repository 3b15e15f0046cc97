package app

import (
	"errors"
	"sync"

	"land_records_lending/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators 在 gin 的 validator 上注册 doctype / role 标签
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding validator is not validator/v10")
			return
		}
		if err := v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
			return models.DocumentType(fl.Field().String()).Valid()
		}); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		})
	})
	return registerErr
}

// ValidationDetails 字段名 -> 失败的 tag
func ValidationDetails(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
