// Package validator validates inbound request models.
//
// Handlers and use cases depend on the Validator interface; V10Validator is the
// go-playground/validator backed implementation with English messages and a
// `digits` rule for numeric codes.
package validator
