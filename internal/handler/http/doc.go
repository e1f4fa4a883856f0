// Package http implements the HTTP transport layer of the server.
//
// It exposes route wiring, request handlers and middleware for the table
// API, authentication, payments and the realtime websocket endpoint.
// Request tracing, access logging, compression and bearer authentication
// are handled here before requests are delegated to the service layer.
package http
