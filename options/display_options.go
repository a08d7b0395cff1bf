package options

// DisplayOptions selects the initial state of a display engine. Nil fields
// mean "use the engine defaults". Mode fields hold the same names the
// engine's string setters accept.
type DisplayOptions struct {
	Dim1          *int
	Dim2          *int
	Projection    string
	Complex       string
	Range         string
	GlobalStretch *bool
	Red           *int
	Green         *int
	Blue          *int
}

func NewDisplayOptions(options *DisplayOptions) *DisplayOptions {
	opt := &DisplayOptions{}
	if options != nil {
		*opt = *options
	}
	return opt
}
