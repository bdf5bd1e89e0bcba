// Package api implements the HTTP layer: request/response models,
// handlers for the content, composition, progress and referral
// operations, and the mapping from internal errors to HTTP responses.
package api
