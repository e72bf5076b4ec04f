// Package client contains the CLI's building blocks for talking to the
// CRTR Studio API and for bootstrapping its local database.
//
// # Overview
//
//  1. Client, the API contract: Register, Login, Me, Logout, ListProjects
//     and Health.
//  2. HTTPClient, its implementation over the JSON HTTP API. Session tokens
//     are sent as "Authorization: Bearer <token>".
//  3. InitDatabase and RunMigrations, which open the local SQLite file and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures match ErrUnavailable. Non-2xx answers are returned as
// *APIError carrying the server's message; 401 answers also match
// ErrUnauthorized via errors.Is.
package client
