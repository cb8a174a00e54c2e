// Package models defines the core domain models for housesplit.
//
// # Models
//
//   - House: the dwelling, its minimum occupancy and its roster of people
//   - Person: an occupant and the periods they lived in the house
//   - Bill, SharedCost, Payment: the three kinds of ledger Entry
//   - Dues: the signed amount each participant owes for one or more entries
//
// Participants are identified by name strings. A participant named on a
// shared cost or payment does not have to be a member of the house.
//
// # Design Principles
//
// 1. **Immutable values**: entities are built once from input data and never mutated
// 2. **Exact money**: every amount is a decimal in whole cents, never a float
// 3. **Sealed entries**: Entry is implemented by exactly Bill, SharedCost and Payment
// 4. **Sign convention**: negative dues are owed to the participant, positive dues are owed by them
package models
