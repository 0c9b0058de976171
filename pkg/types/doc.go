// Package types defines the Member entity, the field bundles accepted by the
// tree operations, configuration, and the standard error values of the
// familytree editor.
package types
