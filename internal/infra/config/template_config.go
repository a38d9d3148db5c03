package configs

import (
	"fmt"
	"time"
)

// TemplateConfig 模板渲染时可见的环境变量、全局变量与时区
type TemplateConfig struct {
	Environment  string                    `json:"environment" yaml:"environment"`
	Environments map[string]map[string]any `json:"environments" yaml:"environments"`
	Globals      map[string]any            `json:"globals" yaml:"globals"`
	Timezone     string                    `json:"timezone" yaml:"timezone"`
}

// Location 日期 helper 使用的时区，未配置时为本地时区
func (c *TemplateConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid template timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ActiveVars 当前环境的变量
func (c *TemplateConfig) ActiveVars() map[string]any {
	return c.Environments[c.Environment]
}
