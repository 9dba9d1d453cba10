package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

var SrvCfg = &SrvConfigs{}

// SrvConfigs is a struct that holds the configuration options for the server.
type SrvConfigs struct {
	Server struct {
		Testnet       bool   `yaml:"testnet"`
		RpcListen     string `yaml:"rpc_listen"`
		EnablePProf   bool   `yaml:"pprof"`
		Prometheus    bool   `yaml:"prometheus"`
		LogLevel      string `yaml:"log_level"`
		MaxUploadSize string `yaml:"max_upload_size"`
	} `yaml:"server"`
	DB struct {
		Driver string `yaml:"driver"`
		Sqlite struct {
			DataDir string `yaml:"data_dir"`
		} `yaml:"sqlite"`
		Mysql struct {
			Addr     string `yaml:"addr"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DB       string `yaml:"db"`
		} `yaml:"mysql"`
	} `yaml:"db"`
	Sentry struct {
		Dsn              string  `yaml:"dsn"`
		TracesSampleRate float64 `yaml:"traces_sample_rate"`
	} `yaml:"sentry"`
	Origins []string `yaml:"origins"`
}

// LoadFile decodes the yaml file at path over the values already in cfg, so
// flags given on the command line act as defaults.
func LoadFile(path string, cfg *SrvConfigs) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewDecoder(f).Decode(cfg)
}
