package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

func configFilenames() []string {
	return []string{"mdxc.toml", ".mdxc.toml"}
}

func Load(configPath string) (*Config, error) {
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	absConfigPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, oops.Wrapf(err, "resolving absolute config path")
	}

	cfg := &Config{}
	k := koanf.New(".")

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix TOML syntax and required fields in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix config structure to match the mdxc.toml schema").
			Wrapf(unmarshalErr, "decoding config from %q", absConfigPath)
	}

	cfg.ConfigDir = filepath.Dir(absConfigPath)
	cfg.ApplyDefaults()

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	cfg.Root = cfg.resolve(cfg.Root)
	cfg.Output = cfg.resolve(cfg.Output)

	return cfg, nil
}

func FindConfigFile() (string, error) {
	path, found, err := searchParents()
	if err != nil {
		return "", err
	}

	if !found {
		return "", oops.
			Code("CONFIG_NOT_FOUND").
			Hint("Run 'mdxc init' to create a config file").
			Errorf("no mdxc.toml or .mdxc.toml found in any parent directory")
	}

	return path, nil
}

// LoadOptional behaves like Load, except that a missing config file is not
// an error when configPath is empty: defaults rooted at the working
// directory are returned instead.
func LoadOptional(configPath string) (*Config, error) {
	if configPath != "" {
		return Load(configPath)
	}

	path, found, err := searchParents()
	if err != nil {
		return nil, err
	}
	if found {
		return Load(path)
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, oops.Wrapf(err, "getting working directory")
	}

	cfg := &Config{ConfigDir: dir}
	cfg.ApplyDefaults()
	cfg.Root = cfg.resolve(cfg.Root)
	cfg.Output = cfg.resolve(cfg.Output)

	return cfg, nil
}

func searchParents() (string, bool, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false, oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil {
			return "", false, findErr
		}

		if found {
			return foundPath, true, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", false, nil
		}

		dir = parentDir
	}
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", oops.
					Code("CONFIG_NOT_FOUND").
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, nil
	}

	return FindConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}
