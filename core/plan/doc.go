package plan

// Package plan implements the slot-packing and replanning engine. It
// scores tasks by urgency, packs pomodoro-sized work sessions into a
// bounded 14-day horizon without exceeding daily budgets or overlapping
// earlier placements, and incrementally replans tasks whose sessions
// were missed. The engine is a pure in-memory computation: it performs
// no I/O and leaves persistence to the caller.
