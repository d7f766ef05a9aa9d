// Package platform is the compile-time backend selector: the build picks
// exactly one EncodingSystem backend per target triple, via the build-tag
// constrained selector_*.go files.
package platform
