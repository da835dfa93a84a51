// Package protocol defines the identifier and wire types exchanged with the
// native library: content topics and pubsub topics with their canonical
// slash-delimited forms, fixed-length message hashes with a 0x-prefixed hex
// form, waku messages, and the store query request/response documents.
//
// Payloads of protocol messages are opaque to the bridge; this package only
// gives them the JSON shape the native boundary expects.
package protocol
