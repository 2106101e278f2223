package config

import "maps"

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per website.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// IgnoredExtensions overrides the default list of file extensions
	// skipped during crawling (images and other non-page assets).
	IgnoredExtensions []string `yaml:"ignoredExtensions,omitempty"`
}

// File represents the structure of the .sitegraph configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the hostname without the protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults. The headers map is cloned so that merging a
	// site's headers never mutates Defaults, which is shared across every
	// host looked up from this File.
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if len(siteConfig.IgnoredExtensions) > 0 {
			result.IgnoredExtensions = siteConfig.IgnoredExtensions
		}
	}

	return result
}
