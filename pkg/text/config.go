package text

// FontConfig names font files for the common style combinations of one
// family. It is a convenience for shells and tools; embedders can also
// register sources directly.
type FontConfig struct {
	Family     string
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// LoadInto registers every configured file into the context. Missing
// optional styles are skipped; a missing Regular file is an error.
func (fc FontConfig) LoadInto(ctx *Context) error {
	if err := ctx.RegisterFile(fc.Family, 400, false, fc.Regular); err != nil {
		return err
	}
	if fc.Bold != "" {
		if err := ctx.RegisterFile(fc.Family, 700, false, fc.Bold); err != nil {
			return err
		}
	}
	if fc.Italic != "" {
		if err := ctx.RegisterFile(fc.Family, 400, true, fc.Italic); err != nil {
			return err
		}
	}
	if fc.BoldItalic != "" {
		if err := ctx.RegisterFile(fc.Family, 700, true, fc.BoldItalic); err != nil {
			return err
		}
	}
	return nil
}
