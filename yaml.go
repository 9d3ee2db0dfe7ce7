package regtab

import (
	"io"

	"gopkg.in/yaml.v3"
)

func writeYAML(w io.Writer, l *Layout) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return err
	}
	return enc.Close()
}
