package config

import "fmt"

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs  FileSystem
	env *EnvLoader
}

// WithFS sets the file system settings files are read from.
func WithFS(fs FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// WithEnv sets the environment loader. A nil loader disables the
// environment layer.
func WithEnv(env *EnvLoader) Option {
	return func(o *loadOptions) {
		o.env = env
	}
}

// Load merges the settings file at path, if any, with the environment and
// decodes the result over DefaultSettings. An empty path or a missing file
// skips the file layer.
func Load(path string, opts ...Option) (Settings, error) {
	o := loadOptions{
		fs:  DefaultFS(),
		env: NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var merged map[string]any

	if path != "" {
		loader, err := NewFileLoader(o.fs, path)
		if err != nil {
			return Settings{}, err
		}
		file, err := loader.Load()
		if err != nil {
			return Settings{}, err
		}
		merged = DeepMerge(merged, file)
	}

	if o.env != nil {
		env, err := o.env.Load()
		if err != nil {
			return Settings{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = DeepMerge(merged, env)
	}

	return Decode(merged, DefaultSettings())
}
