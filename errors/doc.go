// Package errors provides structured error types for the ownership module.
//
// Errors are categorized by Phase (which operation failed) and Kind (error
// category). The Error type carries the handle path, the Go type involved,
// a detail message and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTable, errors.KindInvalidHandle).
//		Path("sockets", "7").
//		GoType("*net.TCPConn").
//		Detail("handle %d was dropped", 7).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ExpiredOwner(errors.PhasePromote, "*Node")
//	err := errors.OutOfBounds(errors.PhaseUnique, nil, 10, 5)
//
// Promotion failures match ErrExpiredOwner regardless of phase:
//
//	if errors.Is(err, ownerrors.ErrExpiredOwner) { ... }
//
// Contract violations (dereferencing an empty handle, releasing a count
// below zero) are reported by panicking with an *Error.
package errors
