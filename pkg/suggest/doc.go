// Package suggest asks a generative model for logo layout suggestions.
//
// A [Requester] validates a [LayoutRequest], renders the fixed typography
// prompt, hands it to a [Generator] together with the output [Schema], and
// checks the returned JSON against that schema before decoding it into a
// [LayoutSuggestion].
//
// Failures come back as coded errors from pkg/errors:
//
//   - INVALID_INPUT when the request fails validation; no call is made
//   - SERVICE_ERROR when the generator fails or returns nothing usable
//
// Each call makes exactly one attempt. Nothing is retried, coalesced or
// cancelled on the caller's behalf; ctx bounds the round trip.
package suggest
