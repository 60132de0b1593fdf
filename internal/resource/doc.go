// Package resource bounds the memory held by concurrent scoring work.
package resource
