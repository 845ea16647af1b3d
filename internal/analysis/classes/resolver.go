package classes

import (
	"fmt"

	"github.com/griffnb/jaxdoc/internal/classfile"
	"github.com/griffnb/jaxdoc/internal/domain"
)

// ClassProvider reads raw class files; the class pool satisfies it.
type ClassProvider interface {
	ReadClass(binaryName string) ([]byte, error)
	Contains(binaryName string) bool
}

// Resolver parses classes from a provider and caches them for the duration
// of one analyze call.
type Resolver struct {
	provider ClassProvider
	cache    map[string]*classfile.Class
}

// NewResolver creates a resolver over the given provider.
func NewResolver(provider ClassProvider) *Resolver {
	return &Resolver{
		provider: provider,
		cache:    make(map[string]*classfile.Class),
	}
}

// Class returns the parsed class for a binary name.
func (r *Resolver) Class(binaryName string) (*classfile.Class, error) {
	if c, ok := r.cache[binaryName]; ok {
		return c, nil
	}
	data, err := r.provider.ReadClass(binaryName)
	if err != nil {
		return nil, err
	}
	c, err := classfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedClassFile, binaryName, err)
	}
	r.cache[binaryName] = c
	return c, nil
}

// Contains reports whether the underlying provider can resolve the class.
func (r *Resolver) Contains(binaryName string) bool {
	return r.provider.Contains(binaryName)
}
