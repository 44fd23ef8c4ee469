package providers

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
	"trustive/internal/structures"
)

const defaultTokenTTL = 24 * time.Hour

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// .env next to the config file is optional
	envFile := filepath.Join(filepath.Dir(flags.ConfigPath), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load %s: %w", envFile, err)
	}

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "TRUSTIVE_LOG_LEVEL")
	v.BindEnv("storage.driver", "TRUSTIVE_STORAGE_DRIVER")
	v.BindEnv("storage.filePath", "TRUSTIVE_STORAGE_FILE")
	v.BindEnv("storage.dsn", "TRUSTIVE_STORAGE_DSN")
	v.BindEnv("cache.enabled", "TRUSTIVE_CACHE_ENABLED")
	v.BindEnv("cache.size", "TRUSTIVE_CACHE_SIZE")
	v.BindEnv("auth.jwtSecret", "TRUSTIVE_JWT_SECRET")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if conf.Auth.TokenTTL <= 0 {
		conf.Auth.TokenTTL = defaultTokenTTL
	}
	conf.AppName = "Trustive"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
