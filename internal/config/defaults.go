package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 28
	}
	if cfg.Apps.ExamScore.Model.Format == "" {
		cfg.Apps.ExamScore.Model.Format = "auto"
	}
	if cfg.Apps.ExamScore.Model.Path == "" {
		cfg.Apps.ExamScore.Model.Path = "/usr/local/var/yosoku/models/tuned_xgb_regressor.json"
	}
	if cfg.Apps.Personality.Model.Format == "" {
		cfg.Apps.Personality.Model.Format = "auto"
	}
	if cfg.Apps.Personality.Model.Path == "" {
		cfg.Apps.Personality.Model.Path = "/usr/local/var/yosoku/models/model.json"
	}
	if cfg.Apps.Personality.Scaler.Format == "" {
		cfg.Apps.Personality.Scaler.Format = "auto"
	}
	if cfg.Apps.Personality.Scaler.Path == "" {
		cfg.Apps.Personality.Scaler.Path = "/usr/local/var/yosoku/models/scaler.json"
	}
}
