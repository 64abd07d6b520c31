package classpath

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of entries kept per lookup kind.
const DefaultCacheSize = 1024

// Cached memoizes the enumeration queries of another Host. Package and member
// listings are recomputed by some hosts on every call; loading many scripts that
// import the same packages asks the same questions repeatedly.
type Cached struct {
	Host
	packages *lru.Cache[string, []string]
	members  *lru.Cache[string, []string]
	exists   *lru.Cache[string, bool]
}

// NewCached wraps host. A size of zero or less selects DefaultCacheSize.
func NewCached(host Host, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	packages, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("package cache: %w", err)
	}
	members, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("member cache: %w", err)
	}
	exists, err := lru.New[string, bool](size)
	if err != nil {
		return nil, fmt.Errorf("class cache: %w", err)
	}
	return &Cached{Host: host, packages: packages, members: members, exists: exists}, nil
}

func (c *Cached) ClassExists(fq string) bool {
	if ok, hit := c.exists.Get(fq); hit {
		return ok
	}
	ok := c.Host.ClassExists(fq)
	c.exists.Add(fq, ok)
	return ok
}

func (c *Cached) TopLevelClasses(pkg string) []string {
	if names, hit := c.packages.Get(pkg); hit {
		return slices.Clone(names)
	}
	names := c.Host.TopLevelClasses(pkg)
	c.packages.Add(pkg, slices.Clone(names))
	return names
}

func (c *Cached) StaticMembers(fq string) []string {
	if names, hit := c.members.Get(fq); hit {
		return slices.Clone(names)
	}
	names := c.Host.StaticMembers(fq)
	c.members.Add(fq, slices.Clone(names))
	return names
}

func (c *Cached) HasStaticMember(fq, name string) bool {
	_, found := slices.BinarySearch(c.StaticMembers(fq), name)
	return found
}

// Purge drops every cached answer, e.g. after classes were registered.
func (c *Cached) Purge() {
	c.packages.Purge()
	c.members.Purge()
	c.exists.Purge()
}
