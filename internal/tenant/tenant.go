package tenant

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var ErrNotFound = errors.New("cloudname not found")

// Tenant is a cloud account whose images are served. Bucket holds its S3 objects.
type Tenant struct {
	Cloudname string `mapstructure:"cloudname" json:"cloudname" validate:"required,alphanum"`
	Bucket    string `mapstructure:"bucket" json:"bucket" validate:"required"`
}

type Registry interface {
	Lookup(ctx context.Context, cloudname string) (Tenant, error)
}

// StaticRegistry serves a fixed set of tenants, typically from configuration.
type StaticRegistry struct {
	tenants map[string]Tenant
}

func NewStaticRegistry(tenants []Tenant) (*StaticRegistry, error) {
	r := &StaticRegistry{tenants: make(map[string]Tenant, len(tenants))}
	for _, t := range tenants {
		if _, dup := r.tenants[t.Cloudname]; dup {
			return nil, fmt.Errorf("duplicate cloudname %q", t.Cloudname)
		}
		r.tenants[t.Cloudname] = t
	}
	return r, nil
}

func (r *StaticRegistry) Lookup(_ context.Context, cloudname string) (Tenant, error) {
	t, ok := r.tenants[cloudname]
	if !ok {
		return Tenant{}, fmt.Errorf("%w: %s", ErrNotFound, cloudname)
	}
	return t, nil
}

// Buckets lists the distinct buckets in use, sorted.
func (r *StaticRegistry) Buckets() []string {
	seen := map[string]bool{}
	buckets := make([]string, 0, len(r.tenants))
	for _, t := range r.tenants {
		if !seen[t.Bucket] {
			seen[t.Bucket] = true
			buckets = append(buckets, t.Bucket)
		}
	}
	sort.Strings(buckets)
	return buckets
}
