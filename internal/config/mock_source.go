// Copyright 2025 Upbound Inc.
// All rights reserved

package config

// MockSource is a mock Source, for tests of code that depends on config.Source
// without touching a filesystem.
type MockSource struct {
	GetConfigFn    func() (*Config, error)
	UpdateConfigFn func(*Config) error
}

// GetConfig calls the underlying get config function.
func (m *MockSource) GetConfig() (*Config, error) {
	return m.GetConfigFn()
}

// UpdateConfig calls the underlying update config function.
func (m *MockSource) UpdateConfig(c *Config) error {
	return m.UpdateConfigFn(c)
}
