// Package chatlog is a bounded in-memory message buffer. It is the
// message store the processor rewrites: messages carry a category, a
// mutable text and a uuid identity, and the oldest messages fall off once
// the limit is reached.
package chatlog
