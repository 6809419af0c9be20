package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetMillisecond retrieves the value associated with key as milliseconds.
	GetMillisecond(key string) time.Duration

	// GetSecond retrieves the value associated with key as seconds.
	// A missing key or a value that cannot be converted yields zero.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key as minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Implementations handle retrieval and type conversion; a missing key yields the
// zero value of the requested type unless a default was registered.
type Config interface {
	io.Closer
	TimeConfig

	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetFloat64(key string) float64
	GetString(key string) string

	// GetArray retrieves the value associated with key as a slice of strings.
	// Configuration value is stored with format <element1>,<element2>,...
	// Blank elements are dropped.
	GetArray(key string) []string

	// GetMap retrieves the value associated with key as a map.
	// Configuration value is stored with format <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
