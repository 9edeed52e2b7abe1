package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/guttosm/packgenius/internal/domain/model"
)

// fileConfig mirrors the YAML configuration file.
// Pointers distinguish "absent" from an explicit zero.
type fileConfig struct {
	Server struct {
		Port           string   `yaml:"port"`
		RateLimit      *int     `yaml:"rate_limit"`
		RateWindow     string   `yaml:"rate_window"`
		RequestTimeout string   `yaml:"request_timeout"`
		CORSOrigins    []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		URI     string `yaml:"uri"`
		Name    string `yaml:"name"`
		Enabled *bool  `yaml:"enabled"`
	} `yaml:"database"`
	Planner struct {
		Unit       string `yaml:"unit"`
		SafetyGaps *struct {
			L float64 `yaml:"l"`
			W float64 `yaml:"w"`
			H float64 `yaml:"h"`
		} `yaml:"safety_gaps"`
		InnerWallThickness *float64    `yaml:"inner_wall_thickness"`
		Strict             *bool       `yaml:"strict"`
		CorrectRotatedGaps *bool       `yaml:"correct_rotated_gaps"`
		HistoryLimit       *int        `yaml:"history_limit"`
		DefaultInventory   []fileBox   `yaml:"default_inventory"`
	} `yaml:"planner"`
	Advisor struct {
		Enabled         *bool    `yaml:"enabled"`
		BaseURL         string   `yaml:"base_url"`
		Model           string   `yaml:"model"`
		Timeout         string   `yaml:"timeout"`
		RateLimit       *float64 `yaml:"rate_limit"`
		Burst           *int     `yaml:"burst"`
		DefaultLanguage string   `yaml:"default_language"`
	} `yaml:"advisor"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty *bool  `yaml:"pretty"`
	} `yaml:"log"`
}

type fileBox struct {
	ID     string  `yaml:"id"`
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Server.Port != "" {
		cfg.Server.Port = fc.Server.Port
	}
	if fc.Server.RateLimit != nil {
		cfg.Server.RateLimit = *fc.Server.RateLimit
	}
	if err := setDuration(&cfg.Server.RateWindow, fc.Server.RateWindow, "server.rate_window"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Server.RequestTimeout, fc.Server.RequestTimeout, "server.request_timeout"); err != nil {
		return err
	}
	if len(fc.Server.CORSOrigins) > 0 {
		cfg.Server.CORSOrigins = append(parseCORSOrigins(""), fc.Server.CORSOrigins...)
	}

	if fc.Database.URI != "" {
		cfg.Database.URI = fc.Database.URI
	}
	if fc.Database.Name != "" {
		cfg.Database.DatabaseName = fc.Database.Name
	}
	if fc.Database.Enabled != nil {
		cfg.Database.Enabled = *fc.Database.Enabled
	}

	p := fc.Planner
	if p.Unit != "" {
		cfg.Planner.Unit = p.Unit
	}
	if p.SafetyGaps != nil {
		cfg.Planner.SafetyGaps = model.SafetyGaps{L: p.SafetyGaps.L, W: p.SafetyGaps.W, H: p.SafetyGaps.H}
	}
	if p.InnerWallThickness != nil {
		cfg.Planner.InnerWallThickness = *p.InnerWallThickness
	}
	if p.Strict != nil {
		cfg.Planner.Strict = *p.Strict
	}
	if p.CorrectRotatedGaps != nil {
		cfg.Planner.CorrectRotatedGaps = *p.CorrectRotatedGaps
	}
	if p.HistoryLimit != nil {
		cfg.Planner.HistoryLimit = *p.HistoryLimit
	}
	if len(p.DefaultInventory) > 0 {
		boxes := make([]model.BoxItem, 0, len(p.DefaultInventory))
		for i, b := range p.DefaultInventory {
			if b.ID == "" || b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
				return fmt.Errorf("planner.default_inventory[%d]: id and positive dimensions required", i)
			}
			boxes = append(boxes, model.NewBoxItem(b.ID, b.Length, b.Width, b.Height))
		}
		cfg.Planner.DefaultInventory = boxes
	}

	a := fc.Advisor
	if a.Enabled != nil {
		cfg.Advisor.Enabled = *a.Enabled
	}
	if a.BaseURL != "" {
		cfg.Advisor.BaseURL = a.BaseURL
	}
	if a.Model != "" {
		cfg.Advisor.Model = a.Model
	}
	if err := setDuration(&cfg.Advisor.Timeout, a.Timeout, "advisor.timeout"); err != nil {
		return err
	}
	if a.RateLimit != nil {
		cfg.Advisor.RateLimit = *a.RateLimit
	}
	if a.Burst != nil {
		cfg.Advisor.Burst = *a.Burst
	}
	if a.DefaultLanguage != "" {
		cfg.Advisor.DefaultLanguage = a.DefaultLanguage
	}

	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.Log.Pretty != nil {
		cfg.Log.Pretty = *fc.Log.Pretty
	}
	return nil
}

func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
