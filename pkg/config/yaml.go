package config

import (
	"io/ioutil"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// yamlDecoder lets aconfig read tasks.yaml
type yamlDecoder struct{}

func (yamlDecoder) Format() string {
	return "yaml"
}

func (yamlDecoder) DecodeFile(filename string) (map[string]interface{}, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", filename)
	}

	return raw, nil
}
