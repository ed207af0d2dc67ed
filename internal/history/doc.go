// Package history persists a ledger of pipeline runs in a local SQLite
// database: one row per run plus one row per executed stage, including exit
// codes and durations. The ledger is advisory; failures to record never
// affect the conversion itself.
package history
