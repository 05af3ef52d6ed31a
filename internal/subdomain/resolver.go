package subdomain

import (
	"net"
	"strings"
)

// PagesPrefix is the internal route that renders a tenant's public page.
const PagesPrefix = "/pages/"

// Resolution is the routing decision for a request host.
type Resolution struct {
	Label   string
	Rewrite bool
}

// Path returns the tenant page path for a rewrite decision.
func (r Resolution) Path() string {
	if !r.Rewrite {
		return ""
	}
	return TenantPath(r.Label)
}

// TenantPath returns the internal path serving label's page.
func TenantPath(label string) string {
	return PagesPrefix + label
}

// Resolver classifies request hosts. Reserved labels (www, the product's own
// domain label) are never treated as tenants.
type Resolver struct {
	reserved map[string]struct{}
}

// NewResolver builds a resolver with the given reserved labels.
func NewResolver(reserved []string) *Resolver {
	r := &Resolver{reserved: make(map[string]struct{}, len(reserved))}
	for _, l := range reserved {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			r.reserved[l] = struct{}{}
		}
	}
	return r
}

// Reserved reports whether label is in the reserved set.
func (r *Resolver) Reserved(label string) bool {
	_, ok := r.reserved[label]
	return ok
}

// Resolve takes the first dot-delimited segment of host as the tenant label.
// An empty host or a reserved label passes through. A host without dots
// (localhost) is treated as a label like any other.
func (r *Resolver) Resolve(host string) Resolution {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return Resolution{}
	}

	label, _, _ := strings.Cut(host, ".")
	if label == "" || r.Reserved(label) {
		return Resolution{}
	}
	return Resolution{Label: label, Rewrite: true}
}
