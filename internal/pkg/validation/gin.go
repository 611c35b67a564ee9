package validation

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
)

// ginValidator plugs the shared validator into gin request binding
type ginValidator struct{}

var _ binding.StructValidator = ginValidator{}

// ValidateStruct validates structs and pointers to structs; other kinds pass through
func (ginValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return Validator().Struct(obj)
}

// Engine returns the underlying validator
func (ginValidator) Engine() interface{} {
	return Validator()
}

// RegisterWithGin makes gin's ShouldBind* report JSON field names and share our rules
func RegisterWithGin() {
	binding.Validator = ginValidator{}
}
