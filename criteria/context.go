package criteria

import (
	"time"

	qlvalue "github.com/araddon/qlbridge/value"
)

// propertyContext exposes Properties to the expression vm and records the
// names it was asked for but does not hold.
type propertyContext struct {
	props   Properties
	missing map[string]struct{}
}

func newPropertyContext(props Properties) *propertyContext {
	return &propertyContext{props: props}
}

// Get implements the qlbridge.ContextReader interface.
func (c *propertyContext) Get(key string) (qlvalue.Value, bool) {
	v, ok := c.props[key]
	if !ok {
		if c.missing == nil {
			c.missing = make(map[string]struct{})
		}
		c.missing[key] = struct{}{}
		return nil, false
	}
	return qlvalue.NewValue(v), true
}

// Row implements the qlbridge.ContextReader interface.
func (c *propertyContext) Row() map[string]qlvalue.Value {
	row := make(map[string]qlvalue.Value, len(c.props))
	for k, v := range c.props {
		row[k] = qlvalue.NewValue(v)
	}
	return row
}

// Ts implements the qlbridge.ContextReader interface.
func (c *propertyContext) Ts() time.Time { return time.Time{} }
