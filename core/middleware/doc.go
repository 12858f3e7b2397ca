// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: protects the webhook with a shared secret (X-Webhook-Secret,
//     compared in constant time) and an optional caller IP allow-list.
//   - rayid: tags every request with a ray id, stored in the context locals
//     and echoed in the X-Ray-ID response header, so log lines of one sync
//     call can be correlated.
//
// rayid is registered globally and first. auth is registered on the sync
// route group only, leaving /metrics and /swagger public.
package middleware
