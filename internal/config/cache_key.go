package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ParsedPrereqKey returns the cache key for a course's parsed prerequisite record.
// Course IDs contain a space ("CS 135"), which is normalised to an underscore.
func (r *CacheKeyStruct) ParsedPrereqKey(courseID string) string {
	return fmt.Sprintf("course:%s:prereq", normalise(courseID))
}

// ProgramKey returns the cache key for a program's metadata, looked up by name.
func (r *CacheKeyStruct) ProgramKey(name string) string {
	return fmt.Sprintf("program:%s", normalise(name))
}

func normalise(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

var CacheKey = NewCacheKeyStruct()

// RateLimitKey returns the fixed-window counter key of a client for a window index.
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}
