// Package models defines the core domain models for Billfold.
//
// All monetary values are stored as int64 minor units (cents). Proportional
// math (item division, tax/tip allocation) is done with largest-remainder
// rounding in the calculator package so that allocated cents always sum
// exactly to the amount being allocated; no float money exists anywhere in
// the persisted models.
//
// Every aggregate (Bill, Transaction, Budget, Goal) is exclusively owned by
// one user ID. Cross-aggregate consistency (mirrored transactions, budget
// spend accumulators, derived status fields) is maintained best-effort by the
// service layer, not by multi-table transactions.
package models
