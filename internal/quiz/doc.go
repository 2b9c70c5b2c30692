// Package quiz implements the locate-the-road quiz state machine.
//
// The engine snapshots the active token list as its pool when a quiz
// starts, draws shuffled targets from the tokens currently visible on
// the map, and grades map clicks by structurally matching the clicked
// features against the target's folded parts - the same rules the
// matcher uses, so a click on any rendered variant of the target road
// counts.
//
// States: idle (not running), active (has or is between targets),
// exhausted (no more visible un-found tokens; shows the final tally),
// back to idle on end. All transitions run on the caller's event
// thread; the engine has no internal concurrency.
//
// The random source is injectable so queue order is reproducible in
// tests; production uses a time-seeded source.
package quiz
