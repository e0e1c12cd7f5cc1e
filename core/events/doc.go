// Package events defines the typed call event contract delivered by the
// voice SDK boundary.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - call.*
//   - speech.*
//   - transcript.*
//   - function.*
//   - conversation.*
//   - session.*
//
// Semantics used across the package:
//
//   - Partial: mutable point-in-time transcript snapshot that can still
//     change for the current utterance.
//   - Final: terminal immutable text for the current utterance. A final
//     transcript may be re-delivered through more than one channel and
//     consumers are expected to absorb duplicates.
//
// call events
//
//   - CallStarted (call.started): the SDK acknowledged call start and the
//     session is live.
//   - CallEnded (call.ended): the SDK reported call termination.
//
// speech events
//
//   - SpeechStarted (speech.started): speech activity began on either side.
//   - SpeechEnded (speech.ended): speech activity ended.
//
// transcript events
//
//   - TranscriptUpdated (transcript.updated): a role-tagged partial or final
//     transcript fragment for the current utterance.
//
// function events
//
//   - FunctionCalled (function.called): the assistant invoked a named
//     backend operation.
//   - FunctionResult (function.result): a result payload for a previous
//     function call, possibly carrying raw result cards.
//
// conversation events
//
//   - ConversationUpdated (conversation.updated): a batched snapshot of the
//     message history so far.
//
// session events
//
//   - SessionError (session.error): an SDK or call-control failure with a
//     best-effort human-readable server message.
package events
