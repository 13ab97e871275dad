// Package core provides the rating store, its CSV layouts and the session
// commands that edit it.
//
// The web package drives it over HTTP; nothing here depends on web.
//
// # Store
//
// A [Store] maps category → item → [Rating] and keeps insertion order at
// both levels. Every session owns one store; nothing is shared between
// sessions.
//
// # Layouts
//
// Stores are exchanged as CSV in two layouts, registered by name in the
// layout registry (see [GetLayout]):
//
//   - long: food_type,food,rating, one row per item ([EncodeLong], [ReconcileLong])
//   - wide: fruit,fruit_rating,vegetable,vegetable_rating,meat,meat_rating,
//     categories side by side and padded with empty cells ([EncodeWide],
//     [ReconcileWide]). "horizontal" is accepted as an alias.
//
// Import is forgiving: missing rating columns and empty rating cells become
// [DefaultRating]. Export is strict: the wide layout refuses a store that
// lacks one of the fixed categories.
//
// # Sessions and commands
//
// Each user action is a [Command] applied by [Service.Handle] to one
// [Session], which returns a [Directive] describing what to show next.
// Loading a file from a new source resets the session first (see
// [Session.Load]).
//
// # Error Handling
//
// Operations return wrapped sentinel errors (see errors.go) that callers
// test with errors.Is. [MapError] turns them into user-facing messages with
// a support code. Saving never returns an error: [WriteTableFile] reports
// the outcome as a [WriteResult].
package core
