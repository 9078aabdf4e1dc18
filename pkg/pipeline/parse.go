package pipeline

import (
	"io"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	pkgio "github.com/matzehuels/seqdiagram/pkg/io"
)

// Parse decodes a definition and converts it into a render input. The
// input is not validated yet; the layout stage does that.
func Parse(r io.Reader, format pkgio.Format) (diagram.Input, error) {
	def, err := pkgio.DecodeDefinition(r, format)
	if err != nil {
		return diagram.Input{}, err
	}
	return def.Input()
}

