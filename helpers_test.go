package evtrie

// counter is a test handler that records how many times it fired.
type counter struct {
	n int
}

func (c *counter) handler() HandlerFunc {
	return func(string, []any) { c.n++ }
}
