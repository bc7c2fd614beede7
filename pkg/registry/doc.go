// Package registry provides a generic, type-safe registry for managing
// named items such as token handlers and template functions. Registries
// can be cloned so that independent template families may extend their
// configuration without affecting each other.
package registry
