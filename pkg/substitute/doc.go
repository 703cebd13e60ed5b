// Package substitute turns trigger words into glyph marker tags and back.
//
// Encode walks a message word by word. A word whose markup-stripped text
// names an enabled trigger has that text swapped for the trigger's marker
// tag, using the zero-width companion when the word before it is already
// a marker. Decode undoes this for a given set of entries. ShouldFilter
// decides whether an incoming message is made of disabled triggers.
//
// An Engine holds one immutable index pair and is safe for concurrent use
// as long as its Gate is.
package substitute
