// Package ir provides the intermediate representation shared by the
// keepaway parser, compiler and engine.
//
// This package contains type definitions and canonical serialization only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Definitions are immutable once produced by a parser or compiler
//   - Worry levels are int64, never floats
//   - Expressions are tagged values, never opaque closures
//   - All JSON tags use snake_case
package ir
