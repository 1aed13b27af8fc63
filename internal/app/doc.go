// Package app wires the application together: configuration, logging, the
// definition loader, and the planning run itself.
package app
