// Package registry provides the per-surface overlay registries.
package registry
