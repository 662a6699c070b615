package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZainyAct/browser-memory/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultDenylistDomains lists sites whose interactions are never stored:
// banking, password managers, identity providers and health portals.
func DefaultDenylistDomains() []string {
	return []string{
		// Banking & payments
		"chase.com",
		"bankofamerica.com",
		"wellsfargo.com",
		"capitalone.com",
		"paypal.com",
		"venmo.com",

		// Password managers
		"1password.com",
		"lastpass.com",
		"bitwarden.com",
		"dashlane.com",

		// Identity
		"accounts.google.com",
		"login.microsoftonline.com",
		"login.live.com",
		"okta.com",
		"auth0.com",

		// Health & government
		"mychart.com",
		"healthcare.gov",
		"irs.gov",
		"login.gov",
	}
}

type denylistFile struct {
	Domains        []string `yaml:"domains"`
	IncludeDefault *bool    `yaml:"include_default"`
}

// Denylist decides which hosts the ingest path drops.
type Denylist struct {
	domains []string
}

func NewDenylist(domains []string) *Denylist {
	d := &Denylist{}
	seen := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
		if domain == "" {
			continue
		}
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		d.domains = append(d.domains, domain)
	}
	return d
}

// LoadDenylist reads a YAML denylist. An empty path yields the built-in list.
//
//	domains:
//	  - example.com
//	include_default: true
func LoadDenylist(path string) (*Denylist, error) {
	if path == "" {
		return NewDenylist(DefaultDenylistDomains()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read denylist %s: %w", path, err)
	}

	var file denylistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse denylist %s: %w", path, err)
	}

	domains := file.Domains
	if file.IncludeDefault == nil || *file.IncludeDefault {
		domains = append(DefaultDenylistDomains(), domains...)
	}

	return NewDenylist(domains), nil
}

func (d *Denylist) Domains() []string {
	return append([]string(nil), d.domains...)
}

// Blocks reports whether host is a denied domain or a subdomain of one.
func (d *Denylist) Blocks(host string) bool {
	if d == nil || host == "" {
		return false
	}
	for _, domain := range d.domains {
		if utils.HostMatchesDomain(host, domain) {
			return true
		}
	}
	return false
}
