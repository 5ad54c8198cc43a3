package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File holds option values loaded from a YAML config file. Zero values mean
// "not set"; explicit flags always win over file values.
type File struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Domain   string `yaml:"domain"`
	BaseDN   string `yaml:"baseDn"`

	ComposeFile string `yaml:"composeFile"`
	DBDSN       string `yaml:"dbDsn"`
	DBService   string `yaml:"dbService"`
	DBUser      string `yaml:"dbUser"`
	DBPassword  string `yaml:"dbPassword"`
	DBName      string `yaml:"dbName"`
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &f, nil
}
