package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams базовая ошибка неверных параметров инструмента
var ErrInvalidParams = errors.New("invalid parameters")

// статусы ошибок параметров для метрик и спанов
const (
	kindParameter  = "parameter_error"
	kindValidation = "validation_error"
)

// ParamError ошибка разбора или проверки параметров
type ParamError struct {
	Kind string
	Err  error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidParams, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// Is позволяет проверять errors.Is(err, ErrInvalidParams)
func (e *ParamError) Is(target error) bool { return target == ErrInvalidParams }

func parameterError(format string, args ...interface{}) error {
	return &ParamError{Kind: kindParameter, Err: fmt.Errorf(format, args...)}
}

func validationError(err error) error {
	return &ParamError{Kind: kindValidation, Err: err}
}

// Params параметры вызова инструмента в виде JSON-объекта
type Params map[string]interface{}

// Float извлекает обязательный числовой параметр
func (p Params) Float(name string) (float64, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return 0, parameterError("missing parameter: %s", name)
	}
	return toFloat(name, raw)
}

// OptionalFloat извлекает числовой параметр или возвращает def
func (p Params) OptionalFloat(name string, def float64) (float64, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return def, nil
	}
	return toFloat(name, raw)
}

// Int извлекает обязательный целочисленный параметр
func (p Params) Int(name string) (int, error) {
	f, err := p.Float(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, parameterError("parameter %s must be an integer, got %g", name, f)
	}
	return int(f), nil
}

// String извлекает обязательный строковый параметр
func (p Params) String(name string) (string, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return "", parameterError("missing parameter: %s", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", parameterError("invalid parameter: %s must be a string", name)
	}
	return s, nil
}

// OptionalString извлекает строковый параметр или возвращает def
func (p Params) OptionalString(name, def string) (string, error) {
	if raw, ok := p[name]; !ok || raw == nil {
		return def, nil
	}
	return p.String(name)
}

// Has сообщает, передан ли параметр
func (p Params) Has(name string) bool {
	raw, ok := p[name]
	return ok && raw != nil
}

// Decode декодирует вложенную структуру через JSON
func (p Params) Decode(name string, dst interface{}) error {
	raw, ok := p[name]
	if !ok || raw == nil {
		return parameterError("missing parameter: %s", name)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return parameterError("invalid parameter %s: %v", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return parameterError("invalid parameter %s: %v", name, err)
	}
	return nil
}

func toFloat(name string, raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, parameterError("invalid parameter: %s: %v", name, err)
		}
		return f, nil
	}
	return 0, parameterError("invalid parameter: %s must be a number", name)
}
