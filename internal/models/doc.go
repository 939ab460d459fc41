// Package models defines the domain entities shared by the reelx client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): values decoded from the remote catalog/collection service
//   - [Movie] : catalog entry, detail fields populated only at [DetailComplex]
//   - [ViewedEntry] : a movie the user has rated, with its 1-5 star rating
//   - [Snapshot] : the ordered watchlist and viewed collections
//
// 2. Persistent Entities: rows in the local activity journal
//   - [Activity] : one collection mutation attempt and its outcome
//
// DTOs are never constructed by the sync layer itself, only decoded from responses.
package models
