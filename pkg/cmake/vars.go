package cmake

import (
	"fmt"
	"strconv"
)

// Vars is an insertion-ordered set of CMake variables. Values are bool,
// string or int.
type Vars struct {
	names  []string
	values map[string]any
}

// NewVars creates an empty variable set
func NewVars() *Vars {
	return &Vars{values: make(map[string]any)}
}

// Set defines or replaces a variable, keeping its first position
func (v *Vars) Set(name string, value any) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns a variable's value
func (v *Vars) Get(name string) (any, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Names returns the variable names in definition order
func (v *Vars) Names() []string {
	return append([]string{}, v.names...)
}

// Len returns the number of variables
func (v *Vars) Len() int {
	return len(v.names)
}

// Map returns a copy of the variables
func (v *Vars) Map() map[string]any {
	out := make(map[string]any, len(v.values))
	for k, value := range v.values {
		out[k] = value
	}
	return out
}

// Format renders a value the way CMake reads it: booleans become ON/OFF
func Format(value any) string {
	switch x := value.(type) {
	case bool:
		if x {
			return "ON"
		}
		return "OFF"
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

func cacheType(value any) string {
	if _, ok := value.(bool); ok {
		return "BOOL"
	}
	return "STRING"
}
