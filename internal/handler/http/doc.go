// Package http serves the document sync API over chi.
//
// Routes cover account registration and login, the long-poll document read,
// the document write and the version probe. Middlewares attach trace and
// device ids, check bearer tokens, verify body hashes and compress responses
// before requests reach the service layer.
package http
