// Package service provides application-level services for the content
// hierarchy, plan composition, progress tracking and the referral graph.
// Services own the transaction boundaries and the business rules that
// span more than one store; handlers call services, never stores.
package service
