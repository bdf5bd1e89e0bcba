// Package store defines the persistence interfaces for the skill-training
// core together with the error taxonomy that storage implementations must
// translate raw database failures into. Callers above this layer never see
// driver-level error codes; they match on the sentinel errors declared here
// with errors.Is.
package store
