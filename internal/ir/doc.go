// Package ir provides the domain types shared by every other package:
// tracked checks, tiles, declarative conditions, coordinates, log events and
// their serialized records.
//
// This package contains type definitions and the small amount of behavior
// that belongs to the data itself (check mutation, coordinate hit boxes,
// canonical serialization). All other internal packages import ir; ir imports
// nothing internal.
//
// Key design constraints:
//   - Check and Tile values stored in events are copies; mutating a tracked
//     Check never rewrites history.
//   - Conditions are immutable once compiled and may be shared between copies.
//   - All JSON tags use snake_case.
package ir
