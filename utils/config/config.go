package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var configPath = "./configs/"
var envConfigPath = "./.env"

func init() {
	LoadConf()
}

func LoadConf() {
	if err := setFileConfig(); err != nil {
		log.Fatalln("failed to load config files:", err.Error())
	}
	if err := setEnvConfig(); err != nil {
		log.Fatalln("failed to load environment:", err.Error())
	}
}

// setFileConfig merges every file found under the config directory. Missing
// directory is fine, defaults apply.
func setFileConfig() error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil
	}
	if exist, _ := pathExists(absPath); !exist {
		return nil
	}
	fileInfoList, err := os.ReadDir(absPath)
	if err != nil {
		return err
	}
	for i := range fileInfoList {
		viper.SetConfigFile(absPath + "/" + fileInfoList[i].Name())
		if err := viper.MergeInConfig(); err != nil {
			return err
		}
	}
	return nil
}

func setEnvConfig() error {
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	envViper := viper.New()
	absPath, err := filepath.Abs(envConfigPath)
	if err != nil {
		return nil
	}
	if exist, _ := pathExists(absPath); exist {
		envViper.SetConfigFile(absPath)
		if err := envViper.ReadInConfig(); err != nil {
			return err
		}
	}
	envKeys := envViper.AllKeys()
	for i := range envKeys {
		viper.Set(strings.Replace(envKeys[i], "_", ".", 1), envViper.Get(envKeys[i]))
	}
	return nil
}

// WatchConf re-reads the config on change and notifies the callback, used to
// pick up live fee/maintenance-rate edits.
func WatchConf(onChange func()) {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		logrus.Printf("config file updated: %s\n", e.Name)
		if onChange != nil {
			onChange()
		}
	})
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
