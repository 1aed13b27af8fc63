// Package assets deduplicates and groups asset-publish requests.
//
// While units are expanded, each one asks for its build artifacts to be
// published. Many units may reference the same asset, and one asset may have
// many destinations. The coordinator guarantees that each distinct asset is
// represented by exactly one publishing action, that the action accumulates
// every destination requested for it in call order, and that the shared
// per-kind publishing role is provisioned at most once.
package assets
