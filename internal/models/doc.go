// Package models defines the core domain models for the split-the-bill server.
//
// # Models
//
//   - Expense: a shared cost fronted by one member of a group
//   - Group: a set of members who split expenses, with a standard currency
//   - User: a registered member, used for name/email resolution
//
// # Design Principles
//
// 1. **Expenses are facts**: an expense is immutable once created; edits rewrite
// the whole record, there is no in-place patching of shares.
//
// 2. **Cached conversion**: AmountInGroupCurrency is converted once at
// create/edit time and stored. Balance computation never converts.
//
// 3. **Avoid circular references**: relationships use ID strings, not pointers.
//
// Pairwise obligations are not stored; they are derived from expenses by the
// ledger package. Settlement state is a key-value presence set owned by the
// storage layer and keyed by obligation keys.
package models
