package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config supplies the store location and the bound user.
type Config interface {
	BasePath() string
	UserID() string
}

// LoadConfig resolves configuration from a .ticktock file, TICKTOCK_*
// environment variables, and defaults.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.ticktock.db")
	viper.SetDefault("user", os.Getenv("USER"))
	viper.SetConfigName(".ticktock") // .yaml is implicit
	viper.SetEnvPrefix("TICKTOCK")
	viper.AutomaticEnv()

	if override := os.Getenv("TICKTOCK_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{Path: path, User: viper.GetString("user")}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	User string `json:"user"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) UserID() string {
	return f.User
}
