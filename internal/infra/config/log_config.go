package configs

import "go_mockapi_server/utils"

// LogConfig 日志配置，file 为空时只输出到 stdout
type LogConfig struct {
	Level        string `json:"level" yaml:"level"`
	File         string `json:"file" yaml:"file"`
	MaxSizeMB    int    `json:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups   int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays   int    `json:"maxAgeDays" yaml:"maxAgeDays"`
	Compress     bool   `json:"compress" yaml:"compress"`
	ReportCaller bool   `json:"reportCaller" yaml:"reportCaller"`
}

func (c LogConfig) Options() utils.LogOptions {
	return utils.LogOptions{
		Level:        c.Level,
		File:         c.File,
		MaxSizeMB:    c.MaxSizeMB,
		MaxBackups:   c.MaxBackups,
		MaxAgeDays:   c.MaxAgeDays,
		Compress:     c.Compress,
		ReportCaller: c.ReportCaller,
	}
}
