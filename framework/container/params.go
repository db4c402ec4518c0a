package container

// Parameters overrides slots by slot name for a single Make call. Values are
// passed through as given, even for slots that reference another entry.
type Parameters map[string]any

// ParameterBuilder implements the fluent override API.
//
//	svc, err := c.With("logger", testLogger).
//	    With("retries", 0).
//	    Make("Service")
type ParameterBuilder struct {
	container *Container
	params    Parameters
}

// With starts an override chain.
func (c *Container) With(slot string, value any) *ParameterBuilder {
	b := &ParameterBuilder{container: c, params: make(Parameters)}
	return b.With(slot, value)
}

// With adds or replaces one override.
func (b *ParameterBuilder) With(slot string, value any) *ParameterBuilder {
	b.params[slot] = value
	return b
}

// Parameters returns a copy of the collected overrides.
func (b *ParameterBuilder) Parameters() Parameters {
	out := make(Parameters, len(b.params))
	for k, v := range b.params {
		out[k] = v
	}
	return out
}

// Make builds name with the collected overrides.
func (b *ParameterBuilder) Make(name string) (any, error) {
	return b.container.Make(name, b.Parameters())
}
