package service

import (
	"connectrpc.com/connect"

	"github.com/krisefikser/krisefikser/internal/apperr"
)

// toConnectError maps a core failure to its Connect code.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	return connect.NewError(codeOf(apperr.KindOf(err)), err)
}

func codeOf(kind apperr.Kind) connect.Code {
	switch kind {
	case apperr.KindNotFound:
		return connect.CodeNotFound
	case apperr.KindInvalidQuantity:
		return connect.CodeInvalidArgument
	case apperr.KindAlreadyInRequestedState:
		return connect.CodeFailedPrecondition
	case apperr.KindUnauthorized:
		return connect.CodePermissionDenied
	case apperr.KindConflict:
		return connect.CodeAborted
	default:
		return connect.CodeInternal
	}
}
