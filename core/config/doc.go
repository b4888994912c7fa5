// Package config provides configuration management for dirsync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Directory: directory server URLs, bind credentials, search filters
//   - Local: passwd/group paths and the protected admin group
//   - Sync: user and group name patterns for partial runs
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Directory.BaseDN)
package config
