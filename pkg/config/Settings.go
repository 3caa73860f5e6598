// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

// Package config loads synchronization settings from a settings file.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/navwar/bisync/pkg/fs"
)

// Setting keys recognized in a settings file.
const (
	KeyDebugMode   = "debug_mode"
	KeySimulate    = "simulate"
	KeySkipHidden  = "skip_hidden"
	KeyUseChecksum = "use_checksum"
	KeyPathA       = "path_a"
	KeyPathB       = "path_b"
)

type Settings struct {
	DebugMode   bool   `mapstructure:"debug_mode"`
	Simulate    bool   `mapstructure:"simulate"`
	SkipHidden  bool   `mapstructure:"skip_hidden"`
	UseChecksum bool   `mapstructure:"use_checksum"`
	PathA       string `mapstructure:"path_a"`
	PathB       string `mapstructure:"path_b"`
}

// SyncConfig returns the settings as the configuration of a Synchronizer.
func (s *Settings) SyncConfig() fs.SyncConfig {
	return fs.SyncConfig{
		DebugMode:   s.DebugMode,
		Simulate:    s.Simulate,
		SkipHidden:  s.SkipHidden,
		UseChecksum: s.UseChecksum,
		PathA:       s.PathA,
		PathB:       s.PathB,
	}
}

func setDefaults(v *viper.Viper) {
	d := fs.DefaultSyncConfig()
	v.SetDefault(KeyDebugMode, d.DebugMode)
	v.SetDefault(KeySimulate, d.Simulate)
	v.SetDefault(KeySkipHidden, d.SkipHidden)
	v.SetDefault(KeyUseChecksum, d.UseChecksum)
	v.SetDefault(KeyPathA, d.PathA)
	v.SetDefault(KeyPathB, d.PathB)
}

// Default returns the settings used when no settings file is given.
func Default() *Settings {
	s, err := decode(viper.New())
	if err != nil {
		// the defaults always decode
		panic(err)
	}
	return s
}

// Load reads the settings file at path.  The format is chosen by the file extension.
// Keys that are not recognized are rejected.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading settings file %q: %w", path, err)
	}
	s, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("error with settings file %q: %w", path, err)
	}
	return s, nil
}

func decode(v *viper.Viper) (*Settings, error) {
	setDefaults(v)
	s := &Settings{}
	if err := v.UnmarshalExact(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
