// Package integrations provides HTTP clients for the external services
// Fontastic talks to.
//
// # Overview
//
// The only service today is the generative-AI backend that produces layout
// suggestions. It lives in its own subpackage:
//
//   - [gemini]: Google Gemini generateContent API
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing service clients share:
// default headers, JSON request and response bodies, status checking and
// HTTP observability hooks. It never retries; a failed call is reported
// to the caller as-is.
//
//	c := integrations.NewClient(30*time.Second, map[string]string{"x-goog-api-key": key})
//	err := c.PostJSON(ctx, url, reqBody, &respBody)
//
// Non-2xx responses come back as [*StatusError] so a service client can
// extract its own error payload from the body.
//
// [gemini]: github.com/matzehuels/fontastic/pkg/integrations/gemini
package integrations
