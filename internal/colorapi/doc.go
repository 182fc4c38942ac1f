// Package colorapi provides an HTTP client for the remote color service.
//
// # Overview
//
// The color service is the authority for palette's records. It exposes a
// small CRUD surface:
//
//   - GET    /colors[?sortByCategory=true]  list every record
//   - POST   /colors                        create, the service assigns the id
//   - PUT    /colors/{id}                   replace code, name and category
//   - DELETE /colors/{id}                   remove, any 2xx is success
//
// Records travel as {"_id", "color", "name", "category"}. The decoder also
// accepts a plain "id" key and numeric identifiers.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and, when a body is sent, Content-Type
//   - Include User-Agent: palette/0.1 and a fresh X-Request-ID
//   - Have a 5-second timeout (WithTimeout overrides it)
//   - Run inside an OpenTelemetry client span named colorapi.<op>
//
// Requests are attempted once. Deciding whether to try again is left to the
// person at the keyboard.
//
// # Error Handling
//
// Every failure is an *Error whose Kind says what went wrong:
//
//   - KindRequest: the request could not be built (empty id, bad body)
//   - KindNoResponse: connection refused, timeout, DNS failure
//   - KindStatus: the service answered 4xx/5xx; StatusCode and Body are set
//   - KindDecode: a 2xx answer whose body was not valid JSON
//
// Describe turns any of these into a one-line message suitable for a toast.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package colorapi
