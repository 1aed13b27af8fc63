// Package plan holds the pipeline plan data model.
//
// A plan is built in two phases. Components append stages and actions to a
// mutable Draft while the pipeline is being expanded. Once expansion is
// complete, Freeze prunes stages that never received an action and returns an
// immutable Plan for the execution layer. Nothing outside this package
// mutates a Plan after Freeze.
//
// Every action carries an explicit Kind discriminator (deploy, publish,
// other). Consumers that need a subset of actions switch on Kind rather than
// on the concrete Go type.
package plan
