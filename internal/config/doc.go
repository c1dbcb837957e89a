// Package config provides configuration structures and utilities for seocrawl.
// It defines the crawl, politeness, and keyword-analysis options, validates
// them before a session starts, and loads the optional .seocrawl.yml file.
package config
