package config

import (
	"os"
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config describes all configuration options
type Config struct {
	Package      string   `toml:"package" yaml:"package" usage:"Name of the Python package under test"`
	Root         string   `toml:"root" yaml:"root" usage:"Project root; detected from the working directory if empty"`
	Path         []string `toml:"path" yaml:"path" usage:"Directories to search for tools; defaults to $PATH"`
	Requirements string   `toml:"requirements" yaml:"requirements" default:"development.txt" usage:"Requirements file installed by the deps task"`
	PylintRC     string   `toml:"pylintrc" yaml:"pylintrc" default:"pylintrc" usage:"pylint configuration file"`
	TestConfig   string   `toml:"test_config" yaml:"test_config" default:"test.ini" usage:"py.test, coverage and tox configuration file"`
	Script       string   `toml:"script" yaml:"script" default:"tasks.star" usage:"Starlark file with additional tasks"`
	Docs         struct {
		Dir    string `toml:"dir" yaml:"dir" default:"docs"`
		Opener string `toml:"opener" yaml:"opener" usage:"Command used to open the built documentation"`
	} `toml:"docs" yaml:"docs"`
	CI struct {
		ReportsEnv string `toml:"reports_env" yaml:"reports_env" default:"CIRCLE_TEST_REPORTS" usage:"Environment variable pointing to the CI report directory"`
	} `toml:"ci" yaml:"ci"`
	Log struct {
		Level string `toml:"level" yaml:"level" default:"info"`
		JSON  bool   `toml:"json" yaml:"json" default:"false" usage:"Output JSONND instead of pretty console messages"`
	} `toml:"log" yaml:"log"`
}

// Files lists the config files (relative to the project root) that are loaded if they exist
var Files = []string{"tasks.toml", "tasks.yaml"}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object.
// Config files are looked up in root.
func Loader(root string, extraFiles ...string) (*Config, *aconfig.Loader) {
	files := make([]string, 0, len(Files)+len(extraFiles))
	for _, name := range Files {
		files = append(files, filepath.Join(root, name))
	}
	files = append(files, extraFiles...)

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:  "DEVTASKS",
		SkipFlags:  true,
		MergeFiles: true,
		Files:      files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
			".yaml": yamlDecoder{},
		},
	})
}

// Load finds the project root (unless root is set), loads the config and validates it.
func Load(root string, extraFiles ...string) (*Config, error) {
	var err error
	if root == "" {
		root, err = FindProjectRoot("")
		if err != nil {
			return nil, err
		}
	}

	for _, name := range extraFiles {
		if _, err := os.Stat(name); err != nil {
			return nil, eris.Wrapf(err, "could not open config file %s", name)
		}
	}

	cfg, loader := Loader(root, extraFiles...)
	if err = loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load config")
	}

	if cfg.Root == "" {
		cfg.Root = root
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(root, cfg.Root)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if cfg.Package == "" {
		return eris.New(`Missing value for package`)
	}

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// ScriptPath returns the absolute path of the task script
func (cfg *Config) ScriptPath() string {
	if filepath.IsAbs(cfg.Script) {
		return cfg.Script
	}

	return filepath.Join(cfg.Root, cfg.Script)
}
