// Package errors provides the error objects used by every fallible
// operation in the StricklySoft systems layer. Each error carries a
// [Kind] from a closed taxonomy, an eagerly formatted message, the source
// location that created it, and a snapshot of the logical call chain
// recorded by pkg/callstack at the moment of failure.
//
// # Kinds
//
// The closed set of kinds ([KindUnknown] through [KindBadAlignment]) each
// have a stable name and description:
//
//	errors.KindNoSuchObject.Name()        // "no_such_object"
//	errors.KindNoSuchObject.Description() // "no such object exists"
//
// Native OS error codes are translated with [KindFromErrno] through a
// fixed lookup table; codes outside the table collapse to [KindUnknown].
//
// # Creating errors
//
// Operations create errors at the point of failure with the context that
// carries their call-stack tracker:
//
//	if n < 0 {
//	    return nil, errors.Failf(ctx, errors.KindInvalidParameter, "count %d is negative", n)
//	}
//
// Backends attach the native failure with [WrapNative], which selects the
// kind from the errno table and appends the native message:
//
//	fd, err := unix.MemfdCreate(name, 0)
//	if err != nil {
//	    return nil, errors.WrapNative(ctx, err, "memfd_create %q", name)
//	}
//
// # Propagation
//
// Intermediate layers return the error unchanged, preserving its kind and
// backtrace ([Propagate] documents this at call sites that want to be
// explicit). The function that handles an error either recovers, calling
// [Error.Release], or reports it with [Print] / [Fatal].
//
// # Inspecting errors
//
//	if errors.KindOf(err) == errors.KindNoSuchObject {
//	    // create it
//	}
//
//	if e, ok := errors.AsError(err); ok {
//	    logger.Error("operation failed",
//	        "kind", e.Kind,
//	        "message", e.Message,
//	    )
//	}
package errors
