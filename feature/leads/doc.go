// Package leads implements the lead sync feature.
//
// An external source (typically a spreadsheet script) pushes its complete
// list of leads to the webhook. The feature reconciles the leads table
// against that snapshot with core/reconcile, so after each call the table
// mirrors the sheet: new rows are created, changed rows are overwritten and
// rows removed from the sheet are deleted.
//
// # Components
//
//   - Store: GORM implementation of reconcile.Store over the leads table
//     (models.Lead). Works on MySQL and SQLite.
//   - Service: parses payloads, collapses duplicate deliveries, applies the
//     sync timeout, archives snapshots and remembers the last outcome.
//   - Handler: HTTP endpoints.
//   - Feature: registers the feature with the loader.
//
// # HTTP Endpoints
//
//   - POST /sync/leads : Sync the snapshot {"leads": [...]}.
//   - GET /sync/status : Outcome of the last sync.
//   - GET /leads : All stored leads.
//   - GET /leads/:id : One lead.
//
// When server.webhook_secret or server.allowed_ips is set, every route of
// the feature requires the X-Webhook-Secret header or an allowed caller IP.
package leads
