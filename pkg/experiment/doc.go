// Package experiment records variant exposures and computes summary
// statistics over them for A/B analysis.
//
// Two halves cooperate around the append-only Exposure event:
//
//   - Recorder - a bounded-queue, best-effort background writer that
//     decouples exposure recording from the evaluation hot path. A full
//     queue drops events (with a log line) rather than blocking; lost
//     events widen confidence intervals but never affect evaluation.
//   - Aggregator - an on-demand, read-only view that groups a flag's
//     exposures by variant and reports count, sample mean, and a 95%
//     confidence interval per variant. With fewer than two samples the
//     interval is reported as absent, not zero.
//
// Storage lives behind the Sink and Source interfaces so the package
// works against Postgres in production and an in-memory fake in tests.
package experiment
