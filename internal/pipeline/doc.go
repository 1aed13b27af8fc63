// Package pipeline is the top-level planner. It turns a validated
// definition model into a frozen deployment plan: stages are created in
// declaration order, each unit expansion is wired to the asset publishing
// coordinator and the output binder, prepare/execute order numbers are
// assigned from the unit dependency graph's wave layering, and the ordering
// validator runs before the plan is considered final.
package pipeline
