// Package ordering checks that no deploy action is scheduled before the
// actions it depends on have finished executing. It reasons purely about the
// relative prepare/execute order numbers carried by each action; it never
// re-sorts the pipeline. The caller is responsible for emitting actions in a
// valid order — this package only reports where that failed.
package ordering
