package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"
)

// LoadMonitoring reads a monitoring configuration from a JSON, YAML, or HCL file.
func LoadMonitoring(path string) (*MonitoringConfig, error) {
	var c MonitoringConfig
	if err := loadFile(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadStudio reads a studio configuration from a JSON, YAML, or HCL file.
func LoadStudio(path string) (*StudioConfig, error) {
	var c StudioConfig
	if err := loadFile(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadFile(path string, target any) error {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if err := hclsimple.DecodeFile(path, nil, target); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Decode(data, filepath.Ext(path), target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Decode parses data into target. ext selects the syntax (".json", ".yaml", ".yml");
// anything else is sniffed: a leading '{' means JSON, otherwise YAML.
func Decode(data []byte, ext string, target any) error {
	switch strings.ToLower(ext) {
	case ".json":
		return decodeJSON(data, target)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, target)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return decodeJSON(data, target)
	}
	return yaml.Unmarshal(data, target)
}

func decodeJSON(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
