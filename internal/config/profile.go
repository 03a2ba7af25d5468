package config

import (
	"fmt"
	"maps"
	"sort"
	"time"
)

// Profile describes one backend in the configuration file. Zero fields are
// unset and fall back to the defaults section, then to built-in defaults.
type Profile struct {
	// Host and Port locate the backend.
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// BaseURL overrides Host and Port.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Proxy is a SOCKS5 proxy address in host:port form.
	Proxy string `yaml:"proxy,omitempty"`

	// Headers are added to every request. Profile headers are merged over
	// the defaults' headers key by key.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Timeout bounds each request, for example "45s".
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// File represents the structure of the .parsescope configuration file.
type File struct {
	// Profile selects the profile used when --profile is not given.
	Profile string `yaml:"profile,omitempty"`

	// Defaults applies to every profile unless overridden.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Profiles maps profile names to backend settings.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// ProfileNames returns the defined profile names in sorted order.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfile returns the named profile merged over the defaults. An empty
// name selects the file's Profile key, and when that is empty too the
// defaults alone are returned.
func (f *File) GetProfile(name string) (Profile, error) {
	if name == "" {
		name = f.Profile
	}
	if name == "" {
		return f.Defaults.clone(), nil
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return mergeProfile(f.Defaults, p), nil
}

func (p Profile) clone() Profile {
	p.Headers = maps.Clone(p.Headers)
	return p
}

// mergeProfile overlays the non-zero fields of override on defaults.
// The defaults' header map is copied, never modified.
func mergeProfile(defaults, override Profile) Profile {
	result := defaults.clone()

	if override.Host != "" {
		result.Host = override.Host
	}
	if override.Port != 0 {
		result.Port = override.Port
	}
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Proxy != "" {
		result.Proxy = override.Proxy
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if len(override.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(override.Headers))
		}
		for k, v := range override.Headers {
			result.Headers[k] = v
		}
	}

	return result
}

// Flag names that can override profile values.
const (
	FlagHost    = "host"
	FlagPort    = "port"
	FlagBaseURL = "base-url"
	FlagProxy   = "proxy"
	FlagTimeout = "timeout"
)

// ApplyProfile copies the set fields of p into c, except those whose flag
// was given explicitly according to changed. Headers are always merged,
// with values already in c winning.
func (c *Config) ApplyProfile(p Profile, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if p.Host != "" && !changed(FlagHost) {
		c.Host = p.Host
	}
	if p.Port != 0 && !changed(FlagPort) {
		c.Port = p.Port
	}
	if p.BaseURL != "" && !changed(FlagBaseURL) && !changed(FlagHost) && !changed(FlagPort) {
		c.BaseURL = p.BaseURL
	}
	if p.Proxy != "" && !changed(FlagProxy) {
		c.Proxy = p.Proxy
	}
	if p.Timeout > 0 && !changed(FlagTimeout) {
		c.Timeout = p.Timeout
	}

	if len(p.Headers) > 0 {
		merged := maps.Clone(p.Headers)
		for k, v := range c.Headers {
			merged[k] = v
		}
		c.Headers = merged
	}
}
