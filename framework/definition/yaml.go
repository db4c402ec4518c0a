package definition

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a static definition file:
//
//	values:
//	  db.host: 127.0.0.1
//	  db.port: 5432
//	aliases:
//	  database: PostgresDB
type document struct {
	Values  map[string]any    `yaml:"values"`
	Aliases map[string]string `yaml:"aliases"`
}

// DecodeYAML reads a static definition document and adds its entries to src.
// Nothing is added if the document is malformed.
func DecodeYAML(r io.Reader, src Source) error {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(err, "decode definitions")
	}
	for alias, target := range doc.Aliases {
		if alias == "" || target == "" {
			return errors.Errorf("decode definitions: alias %q -> %q has an empty side", alias, target)
		}
		if alias == target {
			return errors.Errorf("decode definitions: [%s] is aliased to itself", alias)
		}
	}
	for name := range doc.Values {
		if name == "" {
			return errors.New("decode definitions: value with empty name")
		}
	}

	for name, v := range doc.Values {
		src.AddDefinition(name, Value(v))
	}
	for alias, target := range doc.Aliases {
		src.AddDefinition(alias, Alias(target))
	}
	return nil
}
