package config

import (
	_ "embed"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.yml
var defaultConfig []byte

// EnvPrefix prefixes environment variables that override profile keys.
const EnvPrefix = "DFM_"

// ConfigFileNames lists the profile config names in lookup order.
var ConfigFileNames = []string{".dfm.yml", ".dfm.yaml", ".dfm.toml"}

// envKeys are the keys that may be set from the environment.
var envKeys = map[string]bool{
	"target_dir": true,
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// FindConfigFile returns the profile config file in sourceDir, or "" when
// there is none.
func FindConfigFile(sourceDir string) (string, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(sourceDir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", path).
				WithDetail("path", path)
		}
	}
	return "", nil
}

// LoadProfileConfig loads the profile config of sourceDir. Sources are
// layered in order: embedded defaults, the config file, DFM_* environment
// variables, then overrides. A missing config file yields the defaults.
func LoadProfileConfig(sourceDir string, overrides map[string]interface{}) (*ProfileConfig, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, kyaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load embedded defaults")
	}

	// 2. Profile config file
	path, err := FindConfigFile(sourceDir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded profile config")
	} else {
		logger.Debug().Str("source", sourceDir).Msg("No profile config, using defaults")
	}

	// 3. Environment
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !envKeys[key] {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Caller overrides, usually command line flags
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg ProfileConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode profile config").
			WithDetail("path", path)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Str("config", cfg.String()).Msg("Profile config ready")
	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	if filepath.Ext(path) == ".toml" {
		return ktoml.Parser()
	}
	return kyaml.Parser()
}
