package caller

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type dncFile struct {
	Numbers []string `yaml:"numbers"`
}

// LoadDNC reads a do-not-call list from a YAML file. An empty path means no
// list is configured and yields a nil slice without error.
func LoadDNC(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "caller: read dnc file %s", path)
	}
	var f dncFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "caller: parse dnc file %s", path)
	}
	return f.Numbers, nil
}
